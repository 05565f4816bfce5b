package session

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
)

func headsUp(t *testing.T, opts ...Option) *Session {
	t.Helper()
	table := game.NewTable(game.WithButton(0))
	require.NoError(t, table.Sit(0, "alice", 1000))
	require.NoError(t, table.Sit(1, "bob", 1000))
	return New(table, opts...)
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

func TestSubmitAdvancesStreets(t *testing.T) {
	t.Parallel()

	var results []*game.HandResult
	s := headsUp(t, WithHandComplete(func(r *game.HandResult) { results = append(results, r) }))
	require.NoError(t, s.StartHand())

	_, err := s.Submit(0, game.Call, 0)
	require.NoError(t, err)
	_, err = s.Submit(1, game.Check, 0)
	require.NoError(t, err)

	assert.Equal(t, game.Flop, s.Phase())
	seat, legal := s.Turn()
	assert.Equal(t, 1, seat)
	assert.True(t, legal.Allows(game.Check))

	for s.Phase() != game.HandComplete {
		seat, _ := s.Turn()
		_, err := s.Submit(seat, game.Check, 0)
		require.NoError(t, err)
	}

	require.Len(t, results, 1)
	assert.Same(t, s.LastResult(), results[0])
	assert.False(t, results[0].Uncontested)
	assert.Len(t, results[0].Board, 5)

	seat, _ = s.Turn()
	assert.Equal(t, game.NoSeat, seat)
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	s := headsUp(t)
	_, err := s.Submit(0, game.Call, 0)
	assert.ErrorIs(t, err, game.ErrNoHandInProgress)

	require.NoError(t, s.StartHand())
	_, err = s.Submit(1, game.Check, 0)
	assert.ErrorIs(t, err, game.ErrNotYourTurn)
	assert.ErrorIs(t, s.StartHand(), game.ErrHandInProgress)

	s.Close()
	_, err = s.Submit(0, game.Call, 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTimeoutFoldsFacingBet(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	s := headsUp(t, WithClock(clock), WithTimeout(5*time.Second))
	require.NoError(t, s.StartHand())

	// Small blind owes 5 more, so the clock folds it.
	advance(t, clock, 5*time.Second)

	assert.Equal(t, 1, s.Timeouts())
	assert.Equal(t, game.HandComplete, s.Phase())
	result := s.LastResult()
	require.NotNil(t, result)
	assert.True(t, result.Uncontested)
	assert.Equal(t, map[int]int{0: 995, 1: 1005}, result.Stacks)

	// No clock runs between hands.
	advance(t, clock, time.Minute)
	assert.Equal(t, 1, s.Timeouts())
}

func TestTimeoutChecksWhenFree(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	s := headsUp(t, WithClock(clock), WithTimeout(5*time.Second))
	require.NoError(t, s.StartHand())

	_, err := s.Submit(0, game.Call, 0)
	require.NoError(t, err)

	// Big blind has its option and is checked through to the flop.
	advance(t, clock, 5*time.Second)
	assert.Equal(t, game.Flop, s.Phase())
	seat, _ := s.Turn()
	assert.Equal(t, 1, seat)

	for i := 0; s.Phase() != game.HandComplete; i++ {
		require.Less(t, i, 10)
		advance(t, clock, 5*time.Second)
	}
	assert.Equal(t, 7, s.Timeouts())
	assert.False(t, s.LastResult().Uncontested)
}

func TestActionRestartsClock(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	s := headsUp(t, WithClock(clock), WithTimeout(5*time.Second))
	require.NoError(t, s.StartHand())

	advance(t, clock, 3*time.Second)
	_, err := s.Submit(0, game.Call, 0)
	require.NoError(t, err)

	advance(t, clock, 3*time.Second)
	assert.Zero(t, s.Timeouts(), "big blind still has time")
	assert.Equal(t, game.Preflop, s.Phase())

	advance(t, clock, 2*time.Second)
	assert.Equal(t, 1, s.Timeouts())
	assert.Equal(t, game.Flop, s.Phase())
}

func TestZeroTimeoutDisablesClock(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	s := headsUp(t, WithClock(clock))
	require.NoError(t, s.StartHand())

	advance(t, clock, time.Hour)
	assert.Zero(t, s.Timeouts())
	assert.Equal(t, game.Preflop, s.Phase())
}

func TestCloseStopsClock(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	s := headsUp(t, WithClock(clock), WithTimeout(time.Second))
	require.NoError(t, s.StartHand())
	s.Close()

	advance(t, clock, time.Minute)
	assert.Zero(t, s.Timeouts())
	assert.ErrorIs(t, s.StartHand(), ErrClosed)
}

func TestLeaveOnTheClockFinishesHand(t *testing.T) {
	t.Parallel()

	s := headsUp(t)
	require.NoError(t, s.StartHand())
	require.NoError(t, s.Leave(0))

	assert.Equal(t, game.HandComplete, s.Phase())
	assert.Equal(t, map[int]int{0: 995, 1: 1005}, s.LastResult().Stacks)
	s.View(func(table *game.Table) {
		assert.Nil(t, table.Player(0))
	})
}

func TestConcurrentPlayers(t *testing.T) {
	t.Parallel()

	table := game.NewTable()
	seats := []int{0, 2, 5, 7}
	for _, seat := range seats {
		require.NoError(t, table.Sit(seat, "p", 500))
	}
	s := New(table)

	for range 20 {
		require.NoError(t, s.StartHand())

		var wg sync.WaitGroup
		for _, mine := range seats {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for s.Phase() != game.HandComplete {
					seat, legal := s.Turn()
					if seat != mine {
						runtime.Gosched()
						continue
					}
					action := game.Check
					if legal.Allows(game.Call) {
						action = game.Call
					}
					_, err := s.Submit(seat, action, 0)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		s.View(func(table *game.Table) {
			assert.Equal(t, 2000, table.TotalChips())
		})
	}
}
