package session_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/Pandicon/snails-of-pursuit/internal/session"
)

func expectConsistent(s *session.Session) {
	st := s.State()
	n := s.Config().BodyCount
	ExpectWithOffset(1, st.Positions).To(HaveLen(n))
	ExpectWithOffset(1, st.History).To(HaveLen(n))
	ExpectWithOffset(1, st.Validate()).To(Succeed())
}

type countingObserver struct {
	calls int
	lastT float64
}

func (c *countingObserver) Observe(_ *pursuit.State, t float64) {
	c.calls++
	c.lastT = t
}

var _ = Describe("Session", func() {
	var s *session.Session

	BeforeEach(func() {
		var err error
		s, err = session.New(pursuit.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("starts idle in iterative mode with the default circle", func() {
			Expect(s.Phase()).To(Equal(session.Idle))
			Expect(s.Mode()).To(Equal(session.Iterative))
			Expect(s.Running()).To(BeFalse())
			Expect(s.StepsPerFrame()).To(Equal(1))
			expectConsistent(s)
			for _, h := range s.State().History {
				Expect(h).To(HaveLen(1))
			}
		})

		It("rejects an invalid body count", func() {
			cfg := pursuit.DefaultConfig()
			cfg.BodyCount = 0
			_, err := session.New(cfg)
			Expect(err).To(MatchError(pursuit.ErrInvalidConfiguration))
		})

		It("clamps a non-positive timestep", func() {
			cfg := pursuit.DefaultConfig()
			cfg.Timestep = -1
			s, err := session.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Config().Timestep).To(Equal(pursuit.MinTimestep))
		})

		It("solves immediately in closed-form mode", func() {
			s, err := session.New(pursuit.DefaultConfig(), session.WithMode(session.ClosedForm))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(session.Solved))
			Expect(len(s.State().History[0])).To(BeNumerically(">", 1))
		})
	})

	Describe("parameter edits", func() {
		It("re-initializes on a body count change", func() {
			res, err := s.Apply(session.SetBodyCount{N: 8})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reinitialized).To(BeTrue())
			Expect(s.Config().BodyCount).To(Equal(8))
			expectConsistent(s)
		})

		It("clamps the body count to one", func() {
			_, err := s.Apply(session.SetBodyCount{N: -4})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Config().BodyCount).To(Equal(1))
			expectConsistent(s)
		})

		It("does nothing when the body count is unchanged", func() {
			_, _ = s.Apply(session.Step{})
			res, err := s.Apply(session.SetBodyCount{N: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reinitialized).To(BeFalse())
			Expect(s.State().History[0]).To(HaveLen(2))
		})

		It("re-initializes on a radius change and clamps negatives", func() {
			_, err := s.Apply(session.SetRadius{Radius: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(r2.Norm(s.State().Positions[0])).To(BeNumerically("~", 3, 1e-12))

			_, err = s.Apply(session.SetRadius{Radius: -2})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Config().Radius).To(BeZero())
			expectConsistent(s)
		})

		It("rejects an infinite radius without changing anything", func() {
			_, err := s.Apply(session.SetRadius{Radius: math.Inf(1)})
			Expect(err).To(MatchError(pursuit.ErrInvalidConfiguration))
			Expect(s.Config().Radius).To(Equal(pursuit.DefaultRadius))
		})

		It("clamps the timestep to the floor", func() {
			_, err := s.Apply(session.SetTimestep{Timestep: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Config().Timestep).To(Equal(pursuit.MinTimestep))
		})

		It("keeps the history when speed changes in iterative mode", func() {
			_, _ = s.Apply(session.Step{})
			res, err := s.Apply(session.SetSpeed{Speed: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reinitialized).To(BeFalse())
			Expect(s.State().History[0]).To(HaveLen(2))
		})

		It("clamps steps per frame to one", func() {
			_, err := s.Apply(session.SetStepsPerFrame{N: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.StepsPerFrame()).To(Equal(1))
		})
	})

	Describe("iterative stepping", func() {
		It("moves from idle to stepping and back on pause", func() {
			_, err := s.Apply(session.Run{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(session.Stepping))
			Expect(s.Running()).To(BeTrue())

			_, err = s.Apply(session.Pause{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(session.Idle))
			Expect(s.Running()).To(BeFalse())
		})

		It("toggles", func() {
			_, _ = s.Apply(session.Toggle{})
			Expect(s.Running()).To(BeTrue())
			_, _ = s.Apply(session.Toggle{})
			Expect(s.Running()).To(BeFalse())
		})

		It("ignores ticks while idle", func() {
			res, err := s.Apply(session.Tick{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(BeZero())
			Expect(s.State().History[0]).To(HaveLen(1))
		})

		It("performs steps-per-frame steps on each tick", func() {
			_, _ = s.Apply(session.SetStepsPerFrame{N: 7})
			_, _ = s.Apply(session.Run{})
			res, err := s.Apply(session.Tick{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(7))
			Expect(s.Steps()).To(Equal(7))
			Expect(s.Time()).To(BeNumerically("~", 0.07, 1e-12))
			Expect(s.State().History[0]).To(HaveLen(8))
			expectConsistent(s)
		})

		It("goes idle when the simulation completes", func() {
			_, _ = s.Apply(session.SetBodyCount{N: 4})
			_, _ = s.Apply(session.SetStepsPerFrame{N: 500})
			_, _ = s.Apply(session.Run{})

			var res session.Result
			for i := 0; i < 100 && s.Running(); i++ {
				var err error
				res, err = s.Apply(session.Tick{})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(res.Complete).To(BeTrue())
			Expect(res.Report.Outcome).To(Equal(pursuit.Converged))
			Expect(s.Phase()).To(Equal(session.Idle))
			expectConsistent(s)
		})

		It("keeps running across a reset", func() {
			_, _ = s.Apply(session.Run{})
			_, _ = s.Apply(session.Tick{})
			res, err := s.Apply(session.Reset{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reinitialized).To(BeTrue())
			Expect(s.Running()).To(BeTrue())
			Expect(s.Phase()).To(Equal(session.Stepping))
			Expect(s.Steps()).To(BeZero())
			Expect(s.State().History[0]).To(HaveLen(1))
		})

		It("stops and reports a rejected step", func() {
			_, _ = s.Apply(session.SetSpeed{Speed: 0})
			_, _ = s.Apply(session.Run{})
			_, err := s.Apply(session.Tick{})
			Expect(err).To(MatchError(pursuit.ErrInvalidSpeed))
			Expect(s.Running()).To(BeFalse())
		})
	})

	Describe("closed-form solving", func() {
		It("enters the solved phase and stops running", func() {
			_, _ = s.Apply(session.Run{})
			res, err := s.Apply(session.Solve{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solved).To(BeTrue())
			Expect(s.Phase()).To(Equal(session.Solved))
			Expect(s.Running()).To(BeFalse())
			expectConsistent(s)
		})

		It("is idempotent", func() {
			_, _ = s.Apply(session.Solve{})
			first := s.Snapshot()
			_, err := s.Apply(session.Solve{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State()).To(Equal(first))
		})

		It("rejects a non-positive speed and leaves the state alone", func() {
			_, _ = s.Apply(session.SetSpeed{Speed: -1})
			before := s.Snapshot()
			_, err := s.Apply(session.Solve{})
			Expect(err).To(MatchError(pursuit.ErrInvalidSpeed))
			Expect(s.State()).To(Equal(before))
			Expect(s.Phase()).To(Equal(session.Idle))
		})

		It("restarts from the circle when stepping after a solve", func() {
			_, _ = s.Apply(session.Solve{})
			res, err := s.Apply(session.Step{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reinitialized).To(BeTrue())
			Expect(s.State().History[0]).To(HaveLen(2))
		})
	})

	Describe("closed-form mode", func() {
		BeforeEach(func() {
			_, err := s.Apply(session.SetMode{Mode: session.ClosedForm})
			Expect(err).NotTo(HaveOccurred())
		})

		It("solves on entry", func() {
			Expect(s.Phase()).To(Equal(session.Solved))
		})

		It("refuses stepping commands", func() {
			_, err := s.Apply(session.Run{})
			Expect(err).To(MatchError(session.ErrClosedFormMode))
			_, err = s.Apply(session.Step{})
			Expect(err).To(MatchError(session.ErrClosedFormMode))
		})

		It("re-solves on every parameter change", func() {
			before := len(s.State().History[0])
			res, err := s.Apply(session.SetSpeed{Speed: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solved).To(BeTrue())
			Expect(len(s.State().History[0])).To(BeNumerically("<", before))

			res, err = s.Apply(session.SetBodyCount{N: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solved).To(BeTrue())
			expectConsistent(s)
		})

		It("keeps the previous trajectory when a speed edit is rejected", func() {
			before := s.Snapshot()
			_, err := s.Apply(session.SetSpeed{Speed: 0})
			Expect(err).To(MatchError(pursuit.ErrInvalidSpeed))
			Expect(s.State()).To(Equal(before))
		})

		It("returns to idle iterative mode", func() {
			_, err := s.Apply(session.SetMode{Mode: session.Iterative})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(session.Idle))
			Expect(s.State().History[0]).To(HaveLen(1))
		})
	})

	Describe("RunToCompletion", func() {
		It("runs until the bodies converge", func() {
			obs := &countingObserver{}
			_, _ = s.Apply(session.SetBodyCount{N: 4})
			sum, err := s.RunToCompletion(context.Background(), 100000, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Outcome).To(Equal(pursuit.Converged))
			Expect(sum.Steps).To(BeNumerically(">", 900))
			Expect(obs.calls).To(Equal(sum.Steps + 2))
			Expect(obs.lastT).To(BeNumerically("~", sum.Time, 1e-12))
			Expect(s.Phase()).To(Equal(session.Idle))
		})

		It("reports an exhausted budget", func() {
			sum, err := s.RunToCompletion(context.Background(), 10)
			Expect(err).To(MatchError(session.ErrStepBudget))
			Expect(sum.Steps).To(Equal(10))
			Expect(s.Running()).To(BeFalse())
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.RunToCompletion(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
			Expect(s.Running()).To(BeFalse())
		})
	})

	It("rejects a nil command", func() {
		_, err := s.Apply(nil)
		Expect(err).To(MatchError(session.ErrUnknownCommand))
	})
})

var _ = Describe("ParseMode", func() {
	DescribeTable("accepted spellings",
		func(in string, want session.Mode) {
			got, err := session.ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", session.Iterative),
		Entry("iterative", "iterative", session.Iterative),
		Entry("closed_form", "closed_form", session.ClosedForm),
		Entry("closed-form", "Closed-Form", session.ClosedForm),
		Entry("analytic", "analytic", session.ClosedForm),
	)

	It("rejects unknown modes", func() {
		_, err := session.ParseMode("euler")
		Expect(err).To(HaveOccurred())
	})
})
