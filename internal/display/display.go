// Package display renders cards, hands and simulation results for the
// terminal.
package display

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/ledger"
	"github.com/lox/pokertable/internal/simulator"
	"github.com/lox/pokertable/poker"
)

// Styles contains all styling used by the renderer.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	HandInfo  lipgloss.Style
	Muted     lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Success   lipgloss.Style
	Box       lipgloss.Style
}

// DefaultStyles returns the standard colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Width(14),
		HandInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1),
	}
}

// ColorModes are the values accepted by SetColorMode.
var ColorModes = []string{"auto", "always", "never"}

// SetColorMode forces coloured output on or off for every renderer. With
// "auto" the terminal is detected.
func SetColorMode(mode string) error {
	switch mode {
	case "auto":
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("unknown color mode %q (valid: %v)", mode, ColorModes)
	}
	return nil
}

// Renderer turns engine values into terminal text.
type Renderer struct {
	styles Styles
}

// New creates a renderer with the given styles.
func New(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Cards renders cards in brackets, coloured by suit.
func (r *Renderer) Cards(cards []poker.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Suit().IsRed() {
			formatted = append(formatted, r.styles.RedCard.Render(c.Pretty()))
		} else {
			formatted = append(formatted, r.styles.BlackCard.Render(c.Pretty()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func (r *Renderer) row(label, value string) string {
	return r.styles.Label.Render(label) + value
}

// HandValue renders the evaluation of a hand.
func (r *Renderer) HandValue(cards []poker.Card, hv poker.HandValue) string {
	rows := []string{
		r.styles.Header.Render("Hand"),
		r.row("Cards", r.Cards(cards)),
		r.row("Category", hv.Category.String()),
		r.row("Hand", r.styles.HandInfo.Render(hv.Description())),
		r.row("Best five", r.Cards(hv.Cards[:])),
		r.row("Strength", fmt.Sprintf("%d of %d", hv.Strength, poker.NumClasses)),
	}
	return strings.Join(rows, "\n")
}

// Nuts renders the nut hands and the strongest distinct hands on a board.
func (r *Renderer) Nuts(board []poker.Card, nuts []poker.HoleCards, value poker.HandValue, top []poker.RankedHoleCards) string {
	var b strings.Builder
	b.WriteString(r.styles.Header.Render("Board " + poker.FormatCards(board)))
	b.WriteString("\n")
	b.WriteString(r.row("Nuts", r.styles.HandInfo.Render(value.Description())))
	b.WriteString("\n")

	const shown = 8
	combos := make([]string, 0, shown)
	for i, h := range nuts {
		if i == shown {
			break
		}
		combos = append(combos, r.Cards(h[:]))
	}
	line := strings.Join(combos, " ")
	if len(nuts) > shown {
		line += r.styles.Muted.Render(fmt.Sprintf(" and %d more", len(nuts)-shown))
	}
	b.WriteString(r.row("Hole cards", line))

	if len(top) > 0 {
		b.WriteString("\n\n")
		b.WriteString(r.styles.Header.Render("Top hands"))
		for i, t := range top {
			b.WriteString(fmt.Sprintf("\n%2d. %s %s", i+1, r.Cards(t.Hole[:]), t.Value.Description()))
		}
	}
	return b.String()
}

// HandResult renders a finished hand with the names at each seat.
func (r *Renderer) HandResult(res *game.HandResult, names map[int]string) string {
	name := func(seat int) string {
		if n, ok := names[seat]; ok {
			return n
		}
		return fmt.Sprintf("seat %d", seat)
	}

	var b strings.Builder
	b.WriteString(r.styles.Header.Render(fmt.Sprintf("Hand #%d", res.Number)))
	b.WriteString(r.styles.Muted.Render(" " + res.ID))
	b.WriteString("\n")
	b.WriteString(r.row("Board", r.Cards(res.Board)))
	for i, p := range res.Pots {
		label := "Main pot"
		if i > 0 {
			label = fmt.Sprintf("Side pot %d", i)
		}
		b.WriteString("\n")
		b.WriteString(r.row(label, fmt.Sprintf("%d", p.Amount)))
	}
	for _, s := range res.Shown {
		b.WriteString("\n")
		b.WriteString(r.row(name(s.Seat), r.Cards(s.Hole[:])+" "+s.Value.Description()))
	}
	for _, a := range res.Awards {
		if a.Seat == game.NoSeat {
			continue
		}
		b.WriteString("\n")
		b.WriteString(r.styles.Success.Render(fmt.Sprintf("%s wins %d (%s)", name(a.Seat), a.Amount, a.Hand)))
	}
	return b.String()
}

// Simulation renders the aggregate result of a simulator run.
func (r *Renderer) Simulation(res *simulator.Result) string {
	s := res.Stats
	rows := []string{
		r.styles.Header.Render("Simulation"),
		r.row("Tables", fmt.Sprintf("%d", len(res.Tables))),
		r.row("Hands", fmt.Sprintf("%d", s.Hands)),
		r.row("Actions", fmt.Sprintf("%d", res.Actions())),
		r.row("Showdowns", fmt.Sprintf("%d (%.1f%%)", s.Showdowns, s.ShowdownRate()*100)),
		r.row("Uncontested", fmt.Sprintf("%d", s.Uncontested)),
		r.row("Side pots", fmt.Sprintf("%d", s.SidePots)),
		r.row("Largest pot", fmt.Sprintf("%d chips (%.1f bb)", s.MaxPotChips, s.MaxPotBB)),
		r.row("Pot mean", fmt.Sprintf("%.2f bb (median %.2f, p95 %.2f)", s.Mean(), s.Median(), s.Percentile(0.95))),
		r.row("Duration", res.Duration.Round(time.Millisecond).String()),
	}

	streets := make([]game.Phase, 0, len(s.Streets))
	for street := range s.Streets {
		streets = append(streets, street)
	}
	slices.Sort(streets)
	for _, street := range streets {
		rows = append(rows, r.row("Ended "+street.String(), fmt.Sprintf("%d", s.Streets[street])))
	}

	rebuys := 0
	for _, t := range res.Tables {
		rebuys += t.Rebuys
	}
	rows = append(rows, r.row("Rebuys", fmt.Sprintf("%d", rebuys)))
	return r.styles.Box.Render(strings.Join(rows, "\n"))
}

// Standings renders ledger totals for a table.
func (r *Renderer) Standings(table string, standings []ledger.Standing) string {
	var b strings.Builder
	b.WriteString(r.styles.Header.Render("Standings: " + table))
	if len(standings) == 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Muted.Render("no hands recorded"))
		return b.String()
	}
	for _, st := range standings {
		net := fmt.Sprintf("%+d", st.Net)
		if st.Net > 0 {
			net = r.styles.Success.Render(net)
		}
		b.WriteString("\n")
		b.WriteString(r.row(st.Player, fmt.Sprintf("%s over %d hands, %d won from pots", net, st.Hands, st.Won)))
	}
	return b.String()
}

// RecentHands renders ledger hand summaries, one per line.
func (r *Renderer) RecentHands(hands []ledger.Hand) string {
	lines := make([]string, 0, len(hands))
	for _, h := range hands {
		board := h.Board
		if board == "" {
			board = "-"
		}
		line := fmt.Sprintf("#%-4d %s pot %-6d %s", h.Number, h.Started.Format(time.DateTime), h.Pot, board)
		if h.Uncontested {
			line += r.styles.Muted.Render(" (uncontested)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
