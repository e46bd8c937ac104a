package dashboard

import (
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	stats      lipgloss.Style
	statValue  lipgloss.Style
	card       lipgloss.Style
	selected   lipgloss.Style
	creator    lipgloss.Style
	detail     lipgloss.Style
	tag        lipgloss.Style
	urgent     lipgloss.Style
	expired    lipgloss.Style
	joined     lipgloss.Style
	full       lipgloss.Style
	empty      lipgloss.Style
	hint       lipgloss.Style
	notice     lipgloss.Style
	warning    lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	platforms  map[domain.Platform]lipgloss.Style
}

func newStyles() styles {
	plain := lipgloss.NewStyle().Bold(true)

	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		stats:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		statValue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		card:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		selected:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1),
		creator:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		tag:        lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		urgent:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		expired:    lipgloss.NewStyle().Faint(true).Strikethrough(true),
		joined:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		full:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		empty:      lipgloss.NewStyle().Faint(true),
		hint:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		notice:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		platforms: map[domain.Platform]lipgloss.Style{
			domain.PlatformBlinkit:   plain.Foreground(lipgloss.Color("220")),
			domain.PlatformZepto:     plain.Foreground(lipgloss.Color("135")),
			domain.PlatformInstamart: plain.Foreground(lipgloss.Color("208")),
			domain.PlatformOther:     plain.Foreground(lipgloss.Color("252")),
		},
	}
}

func (s styles) platform(p domain.Platform) lipgloss.Style {
	if style, ok := s.platforms[p]; ok {
		return style
	}
	return s.platforms[domain.PlatformOther]
}
