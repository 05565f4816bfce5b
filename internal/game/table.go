package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/handid"
	"github.com/lox/pokertable/poker"
)

// Table is a ten-seat Hold'em table and the state of its current hand.
type Table struct {
	seats  []*Player
	phase  Phase
	button int
	sb, bb int
	actor  int
	round  Round
	board  []poker.Card
	deck   *poker.Deck

	smallBlind  int
	bigBlind    int
	burn        bool
	rng         poker.Source
	deckFactory func(poker.Source) *poker.Deck
	logger      *log.Logger
	clock       quartz.Clock
	ids         *handid.Generator

	handNumber int
	handID     string
	started    time.Time
	// baseline is the chip total the hand must conserve.
	baseline int
	leaving  map[int]bool
	last     *HandResult
	entrants []Entrant
	history  []ActionRecord
}

// NewTable creates an empty table in the Waiting phase.
func NewTable(opts ...TableOption) *Table {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.smallBlind <= 0 || cfg.bigBlind < cfg.smallBlind {
		panic(fmt.Sprintf("invalid blinds %d/%d", cfg.smallBlind, cfg.bigBlind))
	}

	return &Table{
		seats:       make([]*Player, MaxSeats),
		phase:       Waiting,
		button:      cfg.button,
		sb:          NoSeat,
		bb:          NoSeat,
		actor:       NoSeat,
		smallBlind:  cfg.smallBlind,
		bigBlind:    cfg.bigBlind,
		burn:        cfg.burn,
		rng:         cfg.rng,
		deckFactory: cfg.deckFactory,
		logger:      cfg.logger,
		clock:       cfg.clock,
		ids:         handid.NewGenerator(cfg.rng),
		leaving:     make(map[int]bool),
	}
}

func validSeat(seat int) error {
	if seat < 0 || seat >= MaxSeats {
		return fmt.Errorf("seat %d: %w", seat, ErrInvalidSeat)
	}
	return nil
}

// InHand reports whether a hand is being played.
func (t *Table) InHand() bool {
	return t.phase != Waiting && t.phase != HandComplete
}

// Sit seats a player. A player joining during a hand sits out until the next
// one.
func (t *Table) Sit(seat int, name string, chips int) error {
	if err := validSeat(seat); err != nil {
		return err
	}
	if chips <= 0 {
		return fmt.Errorf("sit with %d chips: %w", chips, ErrInvalidChipAmount)
	}
	if t.seats[seat] != nil {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatOccupied)
	}

	p := &Player{Seat: seat, Name: name, Chips: chips}
	if t.InHand() {
		p.Hand.Status = Out
		t.baseline += chips
	}
	t.seats[seat] = p
	t.logger.Debug("player seated", "seat", seat, "name", name, "chips", chips)
	return nil
}

// Leave removes a player. During a hand the player folds, keeps their
// committed chips in the pot and the seat is vacated when the hand ends.
func (t *Table) Leave(seat int) error {
	if err := validSeat(seat); err != nil {
		return err
	}
	p := t.seats[seat]
	if p == nil {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatEmpty)
	}

	if !t.InHand() {
		t.seats[seat] = nil
		t.logger.Debug("player left", "seat", seat, "name", p.Name)
		return nil
	}

	t.leaving[seat] = true
	if !p.InHand() || len(t.liveSeats()) <= 1 {
		return nil
	}
	if seat == t.actor {
		_, err := t.ApplyAction(seat, Fold, 0)
		return err
	}
	p.Hand.Status = Folded
	p.Hand.LastAction = Fold
	t.history = append(t.history, ActionRecord{Seat: seat, Phase: t.phase, Action: Fold, Total: p.Hand.Committed})
	if t.actor != NoSeat && IsRoundComplete(t.seats, t.round.CurrentBet) {
		t.actor = NoSeat
	}
	t.logger.Debug("player folded on leaving", "hand", t.handID, "seat", seat)
	return nil
}

// Seats returns a copy of the seat array. Empty seats are nil.
func (t *Table) Seats() []*Player {
	out := make([]*Player, len(t.seats))
	for i, p := range t.seats {
		if p != nil {
			out[i] = p.clone()
		}
	}
	return out
}

// Player returns a copy of the player in seat, or nil.
func (t *Table) Player(seat int) *Player {
	if validSeat(seat) != nil || t.seats[seat] == nil {
		return nil
	}
	return t.seats[seat].clone()
}

func (t *Table) Phase() Phase { return t.phase }

// Button returns the dealer seat, NoSeat before the first hand.
func (t *Table) Button() int { return t.button }

func (t *Table) SmallBlindSeat() int { return t.sb }

func (t *Table) BigBlindSeat() int { return t.bb }

// Actor returns the seat on the clock, NoSeat when nobody owes action.
func (t *Table) Actor() int { return t.actor }

func (t *Table) Round() Round { return t.round }

func (t *Table) HandNumber() int { return t.handNumber }

func (t *Table) HandID() string { return t.handID }

// Board returns a copy of the community cards.
func (t *Table) Board() []poker.Card {
	return slices.Clone(t.board)
}

// Blinds returns the configured small and big blind amounts.
func (t *Table) Blinds() (small, big int) {
	return t.smallBlind, t.bigBlind
}

// LastResult returns the most recently finished hand, or nil.
func (t *Table) LastResult() *HandResult {
	return t.last
}

// TotalChips is every stack plus every chip committed to the current hand.
func (t *Table) TotalChips() int {
	total := 0
	for _, p := range t.seats {
		if p != nil {
			total += p.Chips + p.Hand.Contributed
		}
	}
	return total
}

// Pots builds the pots from contributions so far.
func (t *Table) Pots() []Pot {
	return BuildPots(contributions(t.seats))
}

// ValidActions lists the legal actions for the player on the clock.
func (t *Table) ValidActions() LegalActions {
	if t.actor == NoSeat {
		return LegalActions{}
	}
	return ValidActions(t.seats[t.actor], t.round)
}

// IsRoundComplete reports whether the current betting round needs no more
// action. It is false outside of betting phases.
func (t *Table) IsRoundComplete() bool {
	return t.phase.IsBetting() && IsRoundComplete(t.seats, t.round.CurrentBet)
}

func canHoldButton(p *Player) bool {
	return p.Chips > 0
}

// StartHand deals a new hand: it moves the button, posts blinds, deals hole
// cards and puts the first preflop actor on the clock.
func (t *Table) StartHand() error {
	if t.InHand() {
		return fmt.Errorf("start hand %d: %w", t.handNumber+1, ErrHandInProgress)
	}

	eligible := 0
	for _, p := range t.seats {
		if p != nil && canHoldButton(p) {
			eligible++
		}
	}
	if eligible < 2 {
		t.phase = Waiting
		return fmt.Errorf("%d eligible players: %w", eligible, ErrNotEnoughPlayers)
	}

	t.phase = Dealing
	t.moveButton()
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		p.Hand = PlayerHand{Status: Active}
		if !canHoldButton(p) {
			p.Hand.Status = Out
		}
	}
	t.seats[t.button].Hand.Dealer = true

	if eligible == 2 {
		t.sb = t.button
	} else {
		t.sb = nextSeat(t.seats, t.button, canHoldButton)
	}
	t.bb = nextSeat(t.seats, t.sb, canHoldButton)

	t.handNumber++
	t.started = t.clock.Now()
	t.handID = t.ids.Generate(t.started)
	t.baseline = t.TotalChips()
	t.board = t.board[:0]
	t.deck = t.deckFactory(t.rng)

	t.entrants = t.entrants[:0]
	t.history = t.history[:0]
	for _, p := range t.seats {
		if p != nil && p.Hand.Status == Active {
			t.entrants = append(t.entrants, Entrant{Seat: p.Seat, Name: p.Name, Chips: p.Chips})
		}
	}

	t.dealHoleCards()

	sbPosted := t.postBlind(t.sb, t.smallBlind)
	bbPosted := t.postBlind(t.bb, t.bigBlind)
	for i := range t.entrants {
		e := &t.entrants[i]
		e.Hole = t.seats[e.Seat].Hand.Hole
		e.Blind = t.seats[e.Seat].Hand.Contributed
	}
	t.seats[t.sb].Hand.SmallBlind = true
	t.seats[t.bb].Hand.BigBlind = true
	t.round = Round{
		CurrentBet:    max(sbPosted, bbPosted),
		MinRaise:      t.bigBlind,
		LastAggressor: t.bb,
		FullBet:       max(sbPosted, bbPosted),
	}
	t.checkChips("start hand")

	t.phase = Preflop
	t.actor = NextActor(t.seats, t.bb, t.round.CurrentBet)
	t.logger.Debug("hand started",
		"hand", t.handID, "number", t.handNumber, "button", t.button,
		"sb", t.sb, "sb_posted", sbPosted, "bb", t.bb, "bb_posted", bbPosted,
		"actor", t.actor)
	return nil
}

// moveButton places the button for the first hand and advances it one
// eligible seat on every hand after that.
func (t *Table) moveButton() {
	if t.handNumber == 0 {
		if t.button != NoSeat && t.seats[t.button] != nil && canHoldButton(t.seats[t.button]) {
			return
		}
		t.button = nextSeat(t.seats, t.button, canHoldButton)
		return
	}
	t.button = nextSeat(t.seats, t.button, canHoldButton)
}

// dealHoleCards deals one card at a time starting left of the button.
func (t *Table) dealHoleCards() {
	for round := 0; round < 2; round++ {
		seat := t.button
		for {
			seat = nextSeat(t.seats, seat, func(p *Player) bool { return p.Hand.Status == Active })
			cards, err := t.deck.Deal(1)
			if err != nil {
				invariant("deal", "%v", err)
			}
			t.seats[seat].Hand.Hole[round] = cards[0]
			t.seats[seat].Hand.Dealt = true
			if seat == t.button {
				break
			}
		}
	}
}

// postBlind commits up to amount from seat, all-in if the stack is short.
func (t *Table) postBlind(seat, amount int) int {
	p := t.seats[seat]
	posted := min(amount, p.Chips)
	p.Chips -= posted
	p.Hand.Committed = posted
	p.Hand.Contributed = posted
	if p.Chips == 0 {
		p.Hand.Status = StatusAllIn
	}
	return posted
}

// ApplyAction validates and applies an action for the seat on the clock. For
// Bet and Raise amount is the new total committed this round.
func (t *Table) ApplyAction(seat int, action Action, amount int) (Outcome, error) {
	if !t.phase.IsBetting() {
		return Outcome{}, fmt.Errorf("%s in phase %s: %w", action, t.phase, ErrNoHandInProgress)
	}
	if err := validSeat(seat); err != nil {
		return Outcome{}, err
	}
	if seat != t.actor {
		return Outcome{}, fmt.Errorf("seat %d acted, seat %d is on the clock: %w", seat, t.actor, ErrNotYourTurn)
	}

	p := t.seats[seat]
	normalized, err := ValidateAction(p, t.round, action, amount)
	if err != nil {
		return Outcome{}, err
	}

	out := ProcessAction(normalized, amount, p.Chips, t.round.CurrentBet, p.Hand.Committed)
	p.Chips -= out.ChipChange
	p.Hand.Committed = out.Committed
	p.Hand.Contributed += out.ChipChange
	p.Hand.Status = out.Status
	p.Hand.Acted = true
	p.Hand.LastAction = out.Action
	t.history = append(t.history, ActionRecord{
		Seat: seat, Phase: t.phase, Action: out.Action, Amount: out.ChipChange, Total: out.Committed,
	})

	if out.Committed > t.round.CurrentBet {
		if raise := out.Committed - t.round.CurrentBet; raise >= t.round.MinRaise {
			t.round.MinRaise = raise
			t.round.FullBet = out.Committed
		}
		t.round.CurrentBet = out.Committed
		t.round.LastAggressor = seat
	}
	t.checkChips("apply action")

	t.actor = NextActor(t.seats, seat, t.round.CurrentBet)
	amountShown := out.Committed
	if out.Action == Call {
		amountShown = out.ChipChange
	}
	t.logger.Debug("action applied",
		"hand", t.handID, "desc", out.Action.Describe(p.Name, amountShown), "phase", t.phase, "seat", seat,
		"stack", p.Chips, "current_bet", t.round.CurrentBet, "next", t.actor)
	return out, nil
}

// ForceFold folds the player on the clock.
func (t *Table) ForceFold() (Outcome, error) {
	if t.actor == NoSeat {
		return Outcome{}, fmt.Errorf("force fold: %w", ErrNoHandInProgress)
	}
	return t.ApplyAction(t.actor, Fold, 0)
}

// ForceCheckOrFold checks for the player on the clock when that is free and
// folds otherwise.
func (t *Table) ForceCheckOrFold() (Outcome, error) {
	if t.actor == NoSeat {
		return Outcome{}, fmt.Errorf("force check: %w", ErrNoHandInProgress)
	}
	if t.ValidActions().Allows(Check) {
		return t.ApplyAction(t.actor, Check, 0)
	}
	return t.ApplyAction(t.actor, Fold, 0)
}

func (t *Table) liveSeats() []int {
	var live []int
	for _, p := range t.seats {
		if p != nil && p.InHand() {
			live = append(live, p.Seat)
		}
	}
	return live
}

// AdvancePhase moves a completed betting round forward: it awards the pot if
// only one player remains, resolves the showdown after the river, or deals
// the next street and opens a fresh betting round.
func (t *Table) AdvancePhase() error {
	if !t.phase.IsBetting() {
		return fmt.Errorf("advance from %s: %w", t.phase, ErrNoHandInProgress)
	}
	if !IsRoundComplete(t.seats, t.round.CurrentBet) {
		return fmt.Errorf("advance from %s with seat %d to act: %w", t.phase, t.actor, ErrRoundNotComplete)
	}

	if live := t.liveSeats(); len(live) <= 1 {
		pots := t.Pots()
		winner := NoSeat
		if len(live) == 1 {
			winner = live[0]
		}
		t.finishHand(pots, AwardUncontested(pots, winner), nil, true)
		return nil
	}

	if t.phase == River {
		t.phase = Showdown
		sd, err := ResolveShowdown(t.seats, t.board, t.button)
		if err != nil {
			invariant("showdown", "%v", err)
		}
		t.finishHand(sd.Pots, sd.Awards, sd.Hands, false)
		return nil
	}

	t.phase++
	for _, p := range t.seats {
		if p != nil {
			p.Hand.Committed = 0
			p.Hand.Acted = false
		}
	}
	t.round = Round{MinRaise: t.bigBlind, LastAggressor: NoSeat}

	if t.burn {
		if err := t.deck.Burn(); err != nil {
			invariant("burn", "%v", err)
		}
	}
	cards, err := t.deck.Deal(t.phase.communityCards())
	if err != nil {
		invariant("deal board", "%v", err)
	}
	t.board = append(t.board, cards...)
	t.checkChips("advance phase")

	t.actor = NextActor(t.seats, t.button, 0)
	t.logger.Debug("street dealt",
		"hand", t.handID, "phase", t.phase, "board", poker.FormatCards(t.board), "actor", t.actor)
	return nil
}

// finishHand pays awards, records the result and resets per-hand state.
func (t *Table) finishHand(pots []Pot, awards []Award, shown []ShownHand, uncontested bool) {
	won := Winnings(awards)
	if total := TotalPots(pots); total != t.totalContributed() {
		invariant("finish hand", "pots hold %d but %d was contributed", total, t.totalContributed())
	}

	stacks := make(map[int]int)
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		p.Chips += won[p.Seat]
		stacks[p.Seat] = p.Chips
		status := Active
		if p.Chips == 0 {
			status = Out
		}
		p.Hand = PlayerHand{Status: status}
	}
	t.checkChips("finish hand")

	t.last = &HandResult{
		ID:             t.handID,
		Number:         t.handNumber,
		Button:         t.button,
		SmallBlind:     t.smallBlind,
		BigBlind:       t.bigBlind,
		SmallBlindSeat: t.sb,
		BigBlindSeat:   t.bb,
		Board:          slices.Clone(t.board),
		Pots:           pots,
		Awards:         awards,
		Shown:          shown,
		Uncontested:    uncontested,
		Stacks:         stacks,
		Entrants:       slices.Clone(t.entrants),
		Actions:        slices.Clone(t.history),
		Started:        t.started,
		Ended:          t.clock.Now(),
	}
	t.phase = HandComplete
	t.actor = NoSeat

	for _, a := range awards {
		t.logger.Debug("pot awarded", "hand", t.handID, "seat", a.Seat, "pot", a.Pot, "amount", a.Amount, "hand_desc", a.Hand)
	}

	for seat := range t.leaving {
		if p := t.seats[seat]; p != nil {
			t.logger.Debug("player left", "seat", seat, "name", p.Name, "chips", p.Chips)
		}
		t.seats[seat] = nil
		delete(t.leaving, seat)
	}
}

func (t *Table) totalContributed() int {
	total := 0
	for _, p := range t.seats {
		if p != nil {
			total += p.Hand.Contributed
		}
	}
	return total
}

// checkChips panics if chips were created or destroyed during the hand or a
// stack went negative.
func (t *Table) checkChips(op string) {
	for _, p := range t.seats {
		if p != nil && p.Chips < 0 {
			invariant(op, "seat %d has negative stack %d", p.Seat, p.Chips)
		}
	}
	if total := t.TotalChips(); total != t.baseline {
		invariant(op, "chip total %d, expected %d", total, t.baseline)
	}
}
