package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/marquee/internal/display"
	"github.com/pders01/marquee/internal/tmdb"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
// Pass the already-rendered input view string.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderMuted renders text in muted color (utility wrapper).
func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderHelp renders help/instructional text consistently.
func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderCategoryTabs draws the category selector with the active one highlighted.
func renderCategoryTabs(selected tmdb.Category) string {
	tabs := make([]string, 0, len(tmdb.Categories()))
	for i, cat := range tmdb.Categories() {
		label := string(rune('1'+i)) + " " + cat.Label()
		if cat == selected {
			tabs = append(tabs, ActiveCategoryStyle.Render(label))
		} else {
			tabs = append(tabs, CategoryStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderTrending draws the ranked trending rows.
func renderTrending(movies []tmdb.Movie, width int) string {
	rows := []string{HeaderStyle.Render("Trending This Week")}
	titleWidth := width - 16
	if titleWidth < 10 {
		titleWidth = 10
	}
	for i, m := range movies {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			RankStyle.Render(display.TrendingRank(i)),
			truncateEnd(m.Title, titleWidth),
			"  ",
			RatingStyle.Render("★ "+display.Rating(m.VoteAverage)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderSkeletons draws n placeholder cards while a fetch is in flight.
func renderSkeletons(n, width int) string {
	barWidth := width - 4
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 8 {
		barWidth = 8
	}
	rows := make([]string, 0, n*2)
	for i := 0; i < n; i++ {
		short := barWidth * 2 / 3
		rows = append(rows,
			SkeletonStyle.Render(strings.Repeat("█", barWidth)),
			SkeletonStyle.Render(strings.Repeat("▄", short)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
