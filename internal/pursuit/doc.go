// Package pursuit implements cyclic pursuit of n bodies placed on a circle.
//
// Every body moves toward its cyclic predecessor. Two engines advance the
// shared [State]:
//
//   - [Step]: iterative mode, one synchronous timestep from a snapshot
//   - [Solve]: closed-form mode, the whole logarithmic spiral in one call
//
// [Reinitialize] is the only constructor of a [State]; the engines append to
// or replace the histories but never change their shape.
//
// # Example
//
//	cfg := pursuit.DefaultConfig()
//	st, _ := pursuit.Reinitialize(cfg.BodyCount, cfg.Radius)
//	for {
//	    rep, err := pursuit.Step(st, cfg)
//	    if err != nil || rep.Complete() {
//	        break
//	    }
//	}
//
// # Thread Safety
//
// A State has a single writer. Callers that share it with readers must
// serialize access themselves.
package pursuit
