package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/marquee/internal/config"
)

const AppName = "marquee"

// ASCII art logo lines for marquee - canonical definition
var LogoLines = []string{
	" _ __ ___   __ _ _ __ __ _ _   _  ___  ___ ",
	"| '_ ` _ \\ / _` | '__/ _` | | | |/ _ \\/ _ \\",
	"| | | | | | (_| | | | (_| | |_| |  __/  __/",
	"|_| |_| |_|\\__,_|_|  \\__, |\\__,_|\\___|\\___|",
	"                        |_|                ",
}

const CompactLogo = `marquee ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#C084FC"),
	lipgloss.Color("#D57CD9"),
	lipgloss.Color("#F472B6"),
	lipgloss.Color("#A78BFA"),
	lipgloss.Color("#C084FC"),
}

// Brand colors: a dim cinema with neon signage.
// Overridden from [ui.colors] by ApplyTheme.
var (
	PrimaryColor   = lipgloss.Color("#C084FC") // Neon violet
	SecondaryColor = lipgloss.Color("#F472B6") // Marquee pink
	AccentColor    = lipgloss.Color("#A78BFA") // Lavender

	// UI colors
	BackgroundColor = lipgloss.Color("#0F0A1E") // Auditorium
	SurfaceColor    = lipgloss.Color("#3B3560") // Screen edge
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	// Status colors
	RatingColor  = lipgloss.Color("#FACC15") // Star yellow
	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#10B981")
)

// Styled components
var (
	LogoStyle           lipgloss.Style
	HeaderStyle         lipgloss.Style
	StatusBarStyle      lipgloss.Style
	HelpStyle           lipgloss.Style
	RatingStyle         lipgloss.Style
	RankStyle           lipgloss.Style
	SkeletonStyle       lipgloss.Style
	ErrorMessageStyle   lipgloss.Style
	SeparatorStyle      lipgloss.Style
	CategoryStyle       lipgloss.Style
	ActiveCategoryStyle lipgloss.Style

	// Status styles by severity
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style

	// Empty style for resetting
	EmptyStyle = lipgloss.NewStyle()
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the brand colors with configured ones. Empty
// entries keep the built-in color.
func ApplyTheme(colors config.UIColors) {
	set := func(dst *lipgloss.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	set(&PrimaryColor, colors.Primary)
	set(&SecondaryColor, colors.Secondary)
	set(&AccentColor, colors.Accent)
	set(&TextColor, colors.Text)
	set(&MutedColor, colors.Muted)
	set(&ErrorColor, colors.Error)
	set(&RatingColor, colors.Rating)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	RatingStyle = lipgloss.NewStyle().
		Foreground(RatingColor).
		Bold(true)

	RankStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true).
		Width(4)

	SkeletonStyle = lipgloss.NewStyle().
		Foreground(SurfaceColor)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	CategoryStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	ActiveCategoryStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(PrimaryColor).
		Bold(true).
		Padding(0, 1)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(RatingColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Movie Browser %s", versionTag))
	} else {
		lines = append(lines, "    Movie Browser")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines)) // Bold for logo, normal for tagline

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

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))

	// Marquee bulbs below the sign
	separator := lipgloss.NewStyle().
		Foreground(RatingColor).
		Render("● ○ ● ○ ● ○ ●")

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(separator))
}
