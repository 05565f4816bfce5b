// Package game implements a No-Limit Texas Hold'em table engine.
//
// The main type is Table, a ten-seat state machine that deals hands, posts
// blinds, validates and applies actions, detects the end of each betting
// round and resolves showdowns into side pots and awards.
//
// # Basic Usage
//
//	t := game.NewTable(game.WithBlinds(5, 10), game.WithRNG(randutil.New(42)))
//	t.Sit(0, "alice", 1000)
//	t.Sit(3, "bob", 1000)
//	if err := t.StartHand(); err != nil {
//	    // fewer than two players with chips
//	}
//	for t.Phase() != game.HandComplete {
//	    if t.IsRoundComplete() {
//	        t.AdvancePhase()
//	        continue
//	    }
//	    t.ApplyAction(t.Actor(), game.Call, 0)
//	}
//	result := t.LastResult()
//
// # Driving the Table
//
// The engine never advances on its own. After each ApplyAction the caller
// checks IsRoundComplete and calls AdvancePhase, which either deals the next
// street, resolves the showdown, or awards an uncontested pot. The session
// package wraps this loop with locking and an action clock.
//
// # Pure Building Blocks
//
// ProcessAction, ValidateAction, NextActor, IsRoundComplete, BuildPots,
// AwardPots and ResolveShowdown are plain functions over seat snapshots so
// they can be tested and reused without a Table.
//
// The engine is single threaded. A Table must only be used by one goroutine
// at a time.
package game
