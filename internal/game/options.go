package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/poker"
)

// TableOption configures a Table during creation.
type TableOption func(*tableConfig)

type tableConfig struct {
	smallBlind  int
	bigBlind    int
	button      int
	burn        bool
	rng         poker.Source
	logger      *log.Logger
	clock       quartz.Clock
	deckFactory func(poker.Source) *poker.Deck
}

func defaultConfig() tableConfig {
	return tableConfig{
		smallBlind:  5,
		bigBlind:    10,
		button:      NoSeat,
		rng:         randutil.New(0),
		logger:      log.New(io.Discard),
		clock:       quartz.NewReal(),
		deckFactory: poker.NewShuffledDeck,
	}
}

// WithBlinds sets the small and big blind. Default is 5/10.
func WithBlinds(small, big int) TableOption {
	return func(c *tableConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithRNG sets the random source used for shuffles and hand IDs. Tables
// default to a fixed seed so they are reproducible unless told otherwise.
func WithRNG(rng poker.Source) TableOption {
	return func(c *tableConfig) { c.rng = rng }
}

// WithBurnCards burns one card before each flop, turn and river.
func WithBurnCards(burn bool) TableOption {
	return func(c *tableConfig) { c.burn = burn }
}

// WithButton places the dealer button for the first hand. If the seat cannot
// hold the button it moves to the next eligible seat.
func WithButton(seat int) TableOption {
	return func(c *tableConfig) { c.button = seat }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *log.Logger) TableOption {
	return func(c *tableConfig) { c.logger = logger }
}

// WithClock sets the clock used for hand timestamps and IDs.
func WithClock(clock quartz.Clock) TableOption {
	return func(c *tableConfig) { c.clock = clock }
}

// WithDeckFactory overrides how each hand's deck is produced, e.g. to script
// a hand with poker.NewDeckFromCards.
func WithDeckFactory(factory func(poker.Source) *poker.Deck) TableOption {
	return func(c *tableConfig) { c.deckFactory = factory }
}
