package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Name string

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color

	BgBase   color.Color
	BgSubtle color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	White color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style

	EntryTitle lipgloss.Style
	EntryTime  lipgloss.Style
	EntryBody  lipgloss.Style

	Placeholder lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusWarn  lipgloss.Style
	Spinner     lipgloss.Style
}

var (
	currentMu sync.RWMutex
	current   = NewCharmtoneTheme()
)

func CurrentTheme() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

func SetTheme(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

func NewCharmtoneTheme() *Theme {
	return &Theme{
		Name: "charmtone",

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Tertiary:  charmtone.Bok,

		BgBase:   charmtone.Pepper,
		BgSubtle: charmtone.Charcoal,

		FgBase:   charmtone.Ash,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,

		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,

		White: charmtone.Butter,
	}
}

// S returns the styles derived from the theme colors.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	status := base.Background(t.BgSubtle)
	return &Styles{
		Base:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),

		EntryTitle: base.Foreground(t.Primary).Bold(true),
		EntryTime:  base.Foreground(t.FgSubtle),
		EntryBody:  base,

		Placeholder: base.Foreground(t.BgSubtle),

		StatusBar:   status,
		StatusKey:   status.Foreground(t.FgMuted),
		StatusValue: status.Foreground(t.White),
		StatusError: status.Foreground(t.Error).Bold(true),
		StatusInfo:  status.Foreground(t.Success),
		StatusWarn:  status.Foreground(t.Warning),
		Spinner:     status.Foreground(t.Secondary),
	}
}
