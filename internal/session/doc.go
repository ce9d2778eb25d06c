// Package session applies user intents to a pursuit simulation.
//
// A [Session] owns one [pursuit.Config] and one [pursuit.State]. Every change
// goes through [Session.Apply] with a [Command]:
//
//	s, _ := session.New(pursuit.DefaultConfig())
//	s.Apply(session.SetBodyCount{N: 7})
//	s.Apply(session.Run{})
//	for s.Running() {
//	    s.Apply(session.Tick{})
//	}
//
// Re-initialization builds a new state before swapping it in, so a reader
// holding [Session.State] between commands never sees mismatched lengths.
package session
