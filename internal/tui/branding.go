package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/stargaze/internal/config"
)

const AppName = "stargaze"

// ASCII art logo lines for stargaze
var LogoLines = []string{
	"  ✦     ·      ✧        ·    ✦",
	" ┏━┓╺┳╸┏━┓┏━┓┏━╸┏━┓╺━┓┏━╸",
	" ┗━┓ ┃ ┣━┫┣┳┛┃╺┓┣━┫┏━┛┣╸ ",
	" ┗━┛ ╹ ╹ ╹╹┗╸┗━┛╹ ╹┗━╸┗━╸",
	"    ·    ✧      ·     ✦    ·",
}

// Banner gradient colors, dusk to deep night
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FFD166"),
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#C77DFF"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	TextColor  = lipgloss.Color("#EAEAEA")
	MutedColor = lipgloss.Color("#94A3B8")

	StarColor    = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

// Styled components. Rebuilt by ApplyTheme.
var (
	LogoStyle          lipgloss.Style
	HeaderStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	CardTitleStyle     lipgloss.Style
	DateStyle          lipgloss.Style
	NoPreviewStyle     lipgloss.Style
	PlaceholderStyle   lipgloss.Style
	ErrorMessageStyle  lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the palette with configured colors. Empty values keep
// the built-in color.
func ApplyTheme(colors config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, colors.Primary)
	set(&SecondaryColor, colors.Secondary)
	set(&AccentColor, colors.Accent)
	set(&TextColor, colors.Text)
	set(&MutedColor, colors.Muted)
	set(&ErrorColor, colors.Error)
	set(&SuccessColor, colors.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	CardTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	DateStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	NoPreviewStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Align(lipgloss.Center)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(StarColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetWelcomeMessage(fetchKey string) string {
	return GetCompactBanner(fmt.Sprintf("Pick a date range and press %s to fetch", fetchKey))
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// BannerString renders the full banner printed by the version command.
func BannerString(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := "    Astronomy Picture Gallery"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	output := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("✦ · ✧ · ✦")

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return center.Render(output) + "\n" + center.MarginBottom(1).Render(separator)
}

func ShowBanner(version string) {
	fmt.Println(BannerString(version))
}
