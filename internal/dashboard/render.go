package dashboard

import (
	"fmt"
	"strings"
	"unicode"

	"wifimon-termui/internal/client"
)

// Placeholder is rendered instead of an empty network list.
const Placeholder = "No networks found"

// Tier is a signal quality tier.
type Tier int

const (
	TierCritical Tier = iota
	TierWeak
	TierMedium
	TierStrong
)

// TierFor maps a signal percentage to its tier.
func TierFor(signal int) Tier {
	switch {
	case signal >= 70:
		return TierStrong
	case signal >= 50:
		return TierMedium
	case signal >= 30:
		return TierWeak
	default:
		return TierCritical
	}
}

// Quality returns the quality label of the tier.
func (t Tier) Quality() string {
	switch t {
	case TierStrong:
		return "Excellent"
	case TierMedium:
		return "Good"
	case TierWeak:
		return "Fair"
	default:
		return "Weak"
	}
}

// Color returns the termui color name of the tier.
func (t Tier) Color() string {
	switch t {
	case TierStrong:
		return "green"
	case TierMedium:
		return "cyan"
	case TierWeak:
		return "yellow"
	default:
		return "red"
	}
}

// QualityFor is TierFor(signal).Quality().
func QualityFor(signal int) string {
	return TierFor(signal).Quality()
}

const (
	lockedIcon   = "🔒"
	unlockedIcon = "🔓"
)

// Card is the view of one network.
type Card struct {
	Icon      string
	SSID      string
	Signal    int
	Tier      Tier
	Badge     string
	Security  string
	Channel   string
	Frequency string
	Target    string
}

// Locked reports whether the network requires authentication.
func (c Card) Locked() bool {
	return c.Icon == lockedIcon
}

// View is the rendered network list.
type View struct {
	Placeholder string
	Cards       []Card
}

// Empty reports whether the view renders the placeholder.
func (v View) Empty() bool {
	return len(v.Cards) == 0
}

// Render maps networks to their view. It has no side effects.
func Render(networks []client.Network) View {
	if len(networks) == 0 {
		return View{Placeholder: Placeholder}
	}

	cards := make([]Card, 0, len(networks))
	for _, n := range networks {
		signal := clamp(n.Signal)
		tier := TierFor(signal)

		icon := lockedIcon
		if n.Security == "Open" {
			icon = unlockedIcon
		}

		cards = append(cards, Card{
			Icon:      icon,
			SSID:      Escape(n.SSID),
			Signal:    signal,
			Tier:      tier,
			Badge:     fmt.Sprintf("%d%% %s", signal, tier.Quality()),
			Security:  Escape(n.Security),
			Channel:   Escape(n.Channel),
			Frequency: Escape(n.Frequency),
			Target:    TargetFor(n),
		})
	}

	return View{Cards: cards}
}

// Bar draws a width cells wide signal bar in the tier colour.
func (c Card) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := c.Signal * width / 100
	if filled == 0 {
		return strings.Repeat("░", width)
	}
	return fmt.Sprintf("[%s](fg:%s)%s",
		strings.Repeat("█", filled),
		c.Tier.Color(),
		strings.Repeat("░", width-filled),
	)
}

// Line renders the card as a single termui styled row.
func (c Card) Line(barWidth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s [%s](fg:%s)", c.Icon, c.SSID, c.Bar(barWidth), c.Badge, c.Tier.Color())
	fmt.Fprintf(&b, "  %s", c.Security)
	if c.Channel != "" {
		fmt.Fprintf(&b, "  ch %s", c.Channel)
	}
	if c.Frequency != "" {
		fmt.Fprintf(&b, "  %s", c.Frequency)
	}

	return b.String()
}

// TargetFor picks the stable hardware identifier, falling back to the SSID.
func TargetFor(n client.Network) string {
	if n.BSSID != "" {
		return n.BSSID
	}
	return n.SSID
}

// Escape makes radio supplied text safe for a termui styled string: control
// characters are dropped and style markup brackets are replaced.
func Escape(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '[':
			return '⟦'
		case r == ']':
			return '⟧'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func clamp(signal int) int {
	switch {
	case signal < 0:
		return 0
	case signal > 100:
		return 100
	}
	return signal
}
