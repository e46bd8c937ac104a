package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	memberBarWidth = 10
	// countdownFadeWindow is the remaining time at which countdowns start to brighten.
	countdownFadeWindow = 30 * time.Minute
)

type RenderOptions struct {
	// Selected is the highlighted card index, or -1.
	Selected int
	Notice   string
	Warning  string
	// Live switches hints from CLI commands to key presses.
	Live bool
}

// Render draws a single static frame of the dashboard. A selection outside the
// visible cards highlights nothing.
func Render(req application.RenderRequest, opts RenderOptions) string {
	if opts.Selected >= len(req.Cards) {
		opts.Selected = -1
	}
	return renderView(req, opts, newStyles())
}

func renderView(req application.RenderRequest, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Poolify"),
		s.header.Render(greeting(req.Session)),
		renderStats(req.Stats, s),
	}

	if filter := filterLine(req.Query); filter != "" {
		lines = append(lines, s.header.Render(filter))
	}

	if len(req.Cards) == 0 {
		lines = append(lines, "", s.empty.Render(req.EmptyMessage))
		if hint := emptyHint(req, opts.Live); hint != "" {
			lines = append(lines, s.hint.Render(hint))
		}
	} else {
		for i, card := range req.Cards {
			lines = append(lines, renderCard(card, i == opts.Selected, s))
		}
	}

	if opts.Notice != "" {
		lines = append(lines, "", s.notice.Render(opts.Notice))
	}
	if opts.Warning != "" {
		lines = append(lines, "", s.warning.Render(opts.Warning))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func greeting(session domain.Session) string {
	name := domain.DisplayNameFor(session.DisplayName, session.Email)
	if session.Hostel == "" {
		return fmt.Sprintf("Hi, %s", stripControl(name))
	}
	return fmt.Sprintf("Hi, %s (%s)", stripControl(name), stripControl(session.Hostel))
}

func renderStats(stats application.Stats, s styles) string {
	pair := func(label, value string) string {
		return s.stats.Render(label+": ") + s.statValue.Render(value)
	}

	return strings.Join([]string{
		pair("active pools", fmt.Sprintf("%d", stats.ActivePools)),
		pair("saved", stats.SavingsLabel()),
		pair("items pooled", fmt.Sprintf("%d", stats.TotalItems)),
		pair("time saved", fmt.Sprintf("%dh", stats.TimeSavedHours)),
	}, "  ")
}

func filterLine(query application.ViewQuery) string {
	if query.IsZero() {
		return ""
	}

	parts := make([]string, 0, 2)
	if query.Platform != "" && query.Platform != domain.PlatformAll {
		parts = append(parts, "platform: "+query.Platform.DisplayName())
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", search))
	}
	return strings.Join(parts, "  ")
}

func emptyHint(req application.RenderRequest, live bool) string {
	switch {
	case req.QuickPlatform != "" && live:
		return fmt.Sprintf("press n to start a %s pool", req.QuickPlatform.DisplayName())
	case req.QuickPlatform != "":
		return fmt.Sprintf("start one with `poolify pool create --platform %s`", req.QuickPlatform)
	case strings.TrimSpace(req.Query.Search) != "" && live:
		return "press esc to show all pools"
	case strings.TrimSpace(req.Query.Search) != "":
		return ""
	case live:
		return "press n to start a pool"
	default:
		return "start one with `poolify pool create`"
	}
}

func renderCard(card application.Card, selected bool, s styles) string {
	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.platform(card.Platform).Render(stripControl(card.PlatformName)),
		"  ",
		renderCountdown(card.Countdown, s),
	)

	items := "none"
	if tags := card.ItemTags(); len(tags) > 0 {
		rendered := make([]string, 0, len(tags))
		for _, tag := range tags {
			rendered = append(rendered, s.tag.Render(stripControl(tag)))
		}
		items = strings.Join(rendered, ", ")
	}

	footer := []string{
		renderMemberBar(card.Members, card.MaxUsers, memberBarWidth, s),
		" ",
		s.detail.Render(card.MembersLabel()),
		"  ",
		s.detail.Render(card.SavingsLabel()),
	}
	switch {
	case card.Joined:
		footer = append(footer, "  ", s.joined.Render("[joined]"))
	case card.Full:
		footer = append(footer, "  ", s.full.Render("[full]"))
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		s.creator.Render("Created by "+stripControl(card.CreatorName)),
		s.detail.Render("Items: ")+items,
		lipgloss.JoinHorizontal(lipgloss.Top, footer...),
		s.header.Render("id: "+stripControl(string(card.ID))),
	)

	if selected {
		return s.selected.Render(body)
	}
	return s.card.Render(body)
}

func renderCountdown(countdown domain.Countdown, s styles) string {
	switch {
	case countdown.Expired:
		return s.expired.Render(countdown.Label())
	case countdown.Urgent:
		return s.urgent.Render(countdown.Label())
	default:
		return lipgloss.NewStyle().Foreground(countdownColor(countdown.Remaining)).Render(countdown.Label())
	}
}

func renderMemberBar(members, maxUsers, width int, s styles) string {
	if width <= 0 || maxUsers <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(members) / float64(maxUsers)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp from 240 (faded) to 255 (bright white).
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}

// countdownColor brightens as the pool gets closer to expiring.
func countdownColor(remaining time.Duration) lipgloss.Color {
	inverted := countdownFadeWindow.Seconds() - remaining.Seconds()
	return interpolateColor(inverted, 0, countdownFadeWindow.Seconds())
}

// stripControl drops control characters from pool and session text, which any
// process sharing the store can write.
func stripControl(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
