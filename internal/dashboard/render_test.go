package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"wifimon-termui/internal/client"
)

func TestTierFor(t *testing.T) {
	for _, tc := range []struct {
		signal  int
		tier    Tier
		quality string
		color   string
	}{
		{signal: 0, tier: TierCritical, quality: "Weak", color: "red"},
		{signal: 29, tier: TierCritical, quality: "Weak", color: "red"},
		{signal: 30, tier: TierWeak, quality: "Fair", color: "yellow"},
		{signal: 49, tier: TierWeak, quality: "Fair", color: "yellow"},
		{signal: 50, tier: TierMedium, quality: "Good", color: "cyan"},
		{signal: 69, tier: TierMedium, quality: "Good", color: "cyan"},
		{signal: 70, tier: TierStrong, quality: "Excellent", color: "green"},
		{signal: 100, tier: TierStrong, quality: "Excellent", color: "green"},
	} {
		tier := TierFor(tc.signal)
		assert.Equal(t, tc.tier, tier, "signal %d", tc.signal)
		assert.Equal(t, tc.quality, tier.Quality(), "signal %d", tc.signal)
		assert.Equal(t, tc.quality, QualityFor(tc.signal), "signal %d", tc.signal)
		assert.Equal(t, tc.color, tier.Color(), "signal %d", tc.signal)
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := TierFor(-10)
	for s := -9; s <= 110; s++ {
		tier := TierFor(s)
		assert.GreaterOrEqual(t, int(tier), int(prev), "signal %d", s)
		switch s {
		case 30, 50, 70:
			assert.Equal(t, prev+1, tier, "boundary %d", s)
		default:
			assert.Equal(t, prev, tier, "signal %d", s)
		}
		prev = tier
	}
}

func TestRender(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		for _, networks := range [][]client.Network{nil, {}} {
			v := Render(networks)
			assert.True(t, v.Empty())
			assert.Equal(t, Placeholder, v.Placeholder)
		}
	})

	t.Run("single network", func(t *testing.T) {
		v := Render([]client.Network{
			{SSID: "Net1", Signal: 75, Security: "WPA2", Quality: "Excellent"},
		})

		assert.False(t, v.Empty())
		assert.Len(t, v.Cards, 1)

		card := v.Cards[0]
		assert.True(t, card.Locked())
		assert.Equal(t, "Net1", card.SSID)
		assert.Equal(t, 75, card.Signal)
		assert.Equal(t, "green", card.Tier.Color())
		assert.Equal(t, "75% Excellent", card.Badge)
		assert.Equal(t, "Net1", card.Target)
		assert.Equal(t, "[███████](fg:green)░░░", card.Bar(10))
		assert.Contains(t, card.Line(10), "🔒 Net1")
		assert.NotContains(t, card.Line(10), "ch ")
	})

	t.Run("open network with details", func(t *testing.T) {
		v := Render([]client.Network{
			{SSID: "Cafe", BSSID: "AA:BB:CC:DD:EE:FF", Signal: 10, Security: "Open", Channel: "11", Frequency: "2462 MHz"},
		})

		card := v.Cards[0]
		assert.False(t, card.Locked())
		assert.Equal(t, "AA:BB:CC:DD:EE:FF", card.Target)
		assert.Equal(t, "10% Weak", card.Badge)
		assert.Equal(t, "░░░░░", card.Bar(5))
		assert.Contains(t, card.Line(5), "ch 11  2462 MHz")
	})

	t.Run("signal is clamped", func(t *testing.T) {
		v := Render([]client.Network{{SSID: "a", Signal: 140}, {SSID: "b", Signal: -3}})
		assert.Equal(t, 100, v.Cards[0].Signal)
		assert.Equal(t, 0, v.Cards[1].Signal)
	})

	t.Run("radio text is escaped", func(t *testing.T) {
		v := Render([]client.Network{
			{SSID: "[pwn](fg:red)\x1b[2J", Security: "WPA2\n", Channel: "[6]", Frequency: "\x07"},
		})

		card := v.Cards[0]
		assert.Equal(t, "⟦pwn⟧(fg:red)⟦2J", card.SSID)
		assert.Equal(t, "WPA2", card.Security)
		assert.Equal(t, "⟦6⟧", card.Channel)
		assert.Equal(t, "", card.Frequency)
		assert.False(t, strings.ContainsRune(card.Line(10), '\x1b'))
	})
}
