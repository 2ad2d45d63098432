package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingMovies = "Loading movies…"
	MsgLoadingDetail = "Loading details…"
	MsgOpeningPoster = "Opening poster…"
	MsgOpeningPage   = "Opening TMDB page…"
	MsgNoPoster      = "No poster for this movie"
	MsgNoResults     = "No results"
	MsgFetchFailed   = "Fetch failed"
)

const statusTTL = 3 * time.Second

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

type statusClearMsg struct {
	seq int
}

// setStatus shows text in the status bar. A positive ttl clears it again
// unless a newer status replaced it first.
func (a *App) setStatus(text string, kind StatusKind, ttl time.Duration) tea.Cmd {
	a.statusSeq++
	a.statusText = text
	a.statusKind = kind
	if ttl <= 0 {
		return nil
	}
	seq := a.statusSeq
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (a *App) clearStatus(seq int) {
	if seq == a.statusSeq {
		a.statusText = ""
		a.statusKind = StatusInfo
	}
}
