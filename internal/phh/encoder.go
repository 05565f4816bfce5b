package phh

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeAll writes hands as a PHH collection, each under a numbered table
// starting at [1].
func EncodeAll(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("phh: hand %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatAction converts an engine action to its PHH string. total is the
// seat's commitment for the round after acting and currentBet the amount to
// match before it acted. An all-in that does not raise is a call.
func FormatAction(index int, action game.Action, total, currentBet int) string {
	player := fmt.Sprintf("p%d", index+1)
	switch action {
	case game.Fold:
		return player + " f"
	case game.Check, game.Call:
		return player + " cc"
	case game.AllIn:
		if total <= currentBet {
			return player + " cc"
		}
		return fmt.Sprintf("%s cbr %d", player, total)
	default:
		return fmt.Sprintf("%s cbr %d", player, total)
	}
}

// FromHand converts a finished hand. table names the table it was played at.
func FromHand(res *game.HandResult, table string) *HandHistory {
	order := smallBlindOrder(res.Entrants, res.Button)
	index := make(map[int]int, len(order))
	for i, e := range order {
		index[e.Seat] = i
	}

	n := len(order)
	h := &HandHistory{
		Variant:           "NT",
		Table:             table,
		SeatCount:         game.MaxSeats,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            res.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            res.ID,
		Timestamp:         res.Started,
	}

	won := game.Winnings(res.Awards)
	for i, e := range order {
		h.Seats[i] = e.Seat + 1
		h.BlindsOrStraddles[i] = e.Blind
		h.StartingStacks[i] = e.Chips
		h.FinishingStacks[i] = res.Stacks[e.Seat]
		h.Winnings[i] = won[e.Seat]
		h.Players[i] = e.Name
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, holeString(e.Hole)))
	}

	var currentBet int
	for _, e := range order {
		currentBet = max(currentBet, e.Blind)
	}
	phase := game.Preflop
	for _, a := range res.Actions {
		for phase < a.Phase {
			phase++
			currentBet = 0
			h.Actions = append(h.Actions, dealBoard(res.Board, phase)...)
		}
		h.Actions = append(h.Actions, FormatAction(index[a.Seat], a.Action, a.Total, currentBet))
		currentBet = max(currentBet, a.Total)
	}
	// Streets dealt with nobody left to act, as when everyone is all in.
	for p := phase + 1; p <= game.River; p++ {
		h.Actions = append(h.Actions, dealBoard(res.Board, p)...)
	}

	for _, s := range res.Shown {
		h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", index[s.Seat]+1, holeString(s.Hole)))
	}

	if !res.Started.IsZero() {
		started := res.Started.UTC()
		h.Time = started.Format("15:04:05")
		h.TimeZone = "UTC"
		h.Day = started.Day()
		h.Month = int(started.Month())
		h.Year = started.Year()
	}
	return h
}

// dealBoard returns the board deal for the street, or nothing if the hand
// ended before it was dealt.
func dealBoard(board []poker.Card, phase game.Phase) []string {
	var from, to int
	switch phase {
	case game.Flop:
		from, to = 0, 3
	case game.Turn:
		from, to = 3, 4
	case game.River:
		from, to = 4, 5
	default:
		return nil
	}
	if len(board) < to {
		return nil
	}
	var b strings.Builder
	for _, c := range board[from:to] {
		b.WriteString(c.String())
	}
	return []string{"d db " + b.String()}
}

func holeString(h poker.HoleCards) string {
	return h[0].String() + h[1].String()
}

// smallBlindOrder rotates entrants to start at the small blind. Heads up the
// button posts the small blind.
func smallBlindOrder(entrants []game.Entrant, button int) []game.Entrant {
	if len(entrants) == 0 {
		return nil
	}
	start := 0
	for i, e := range entrants {
		if len(entrants) == 2 && e.Seat == button {
			start = i
			break
		}
		if len(entrants) > 2 && e.Seat > button {
			start = i
			break
		}
	}
	out := make([]game.Entrant, 0, len(entrants))
	out = append(out, entrants[start:]...)
	return append(out, entrants[:start]...)
}

// WriteFile encodes hands as a collection and writes them to filename. The
// file is replaced atomically so readers never see a partial history.
func WriteFile(filename string, hands []*HandHistory) error {
	var buf bytes.Buffer
	if err := EncodeAll(&buf, hands); err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
