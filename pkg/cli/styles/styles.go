package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wolfi-dev/pkgblame/pkg/format"
)

var darkMode = lipgloss.HasDarkBackground()

var (
	accented  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	secondary = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	faint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	explicit  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f"))

	accentedLight  = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Bold(true)
	secondaryLight = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	faintLight     = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))
	explicitLight  = lipgloss.NewStyle().Foreground(lipgloss.Color("#008700"))
)

func pick(dark, light lipgloss.Style) lipgloss.Style {
	if !darkMode {
		return light
	}
	return dark
}

// Fields returns the styles applied to --format field values when --color is
// in effect.
func Fields() *format.Styles {
	return &format.Styles{
		Fields: map[format.Field]lipgloss.Style{
			format.FieldName:    pick(accented, accentedLight),
			format.FieldVersion: pick(secondary, secondaryLight),
			format.FieldComment: pick(faint, faintLight),
			format.FieldReason:  pick(explicit, explicitLight),
			format.FieldArch:    pick(faint, faintLight),
			format.FieldSize:    pick(secondary, secondaryLight),
		},
	}
}
