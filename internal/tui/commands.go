package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/display"
	"github.com/pders01/marquee/internal/media"
	"github.com/pders01/marquee/internal/tmdb"
)

// startFetch runs req off the event loop. The previous in-flight request,
// if any, is cancelled since its result can no longer be applied.
func (a *App) startFetch(req browse.Request) tea.Cmd {
	if a.inflight != nil {
		a.inflight()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.inflight = cancel

	controller := a.controller
	fetch := func() tea.Msg {
		return moviesFetchedMsg{res: controller.Fetch(ctx, req)}
	}
	return tea.Batch(
		fetch,
		a.spinner.Tick,
		a.setStatus(MsgLoadingMovies, StatusInfo, 0),
	)
}

// finishFetch releases the context of the request that was just applied.
func (a *App) finishFetch() {
	if a.inflight != nil {
		a.inflight()
		a.inflight = nil
	}
}

func (a *App) fetchTrending() tea.Cmd {
	ctx := a.ctx
	controller := a.controller
	return func() tea.Msg {
		return trendingFetchedMsg{res: controller.FetchTrending(ctx)}
	}
}

// movieMarkdown renders the detail page source for m.
func movieMarkdown(m tmdb.Movie) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("# %s\n\n", m.Title))

	facts := []string{fmt.Sprintf("**★ %s**", display.Rating(m.VoteAverage))}
	if m.VoteCount > 0 {
		facts[0] += fmt.Sprintf(" (%d votes)", m.VoteCount)
	}
	facts = append(facts, display.Year(m.ReleaseDate))
	if code := display.Language(m.OriginalLanguage); code != "" {
		if name := display.LanguageName(m.OriginalLanguage); name != "" {
			facts = append(facts, fmt.Sprintf("%s (%s)", name, code))
		} else {
			facts = append(facts, code)
		}
	}
	content.WriteString(strings.Join(facts, " · "))
	content.WriteString("\n\n")

	if overview := strings.TrimSpace(m.Overview); overview != "" {
		content.WriteString(overview)
	} else {
		content.WriteString("*No overview available.*")
	}
	content.WriteString("\n\n---\n\n")

	if m.PosterPath != "" {
		content.WriteString(fmt.Sprintf("**Poster:** %s\n\n", display.PosterURL(m.PosterPath, display.SizeCard)))
	}
	content.WriteString(fmt.Sprintf("[View on TMDB](%s)\n", media.MoviePageURL(m.ID)))

	return content.String()
}

// renderDetail renders m with glamour. The renderer is picked on the event
// loop and only used by the returned command.
func (a *App) renderDetail(m tmdb.Movie) tea.Cmd {
	renderer, err := a.getRenderer()
	return func() tea.Msg {
		source := movieMarkdown(m)
		if err != nil {
			return detailRenderedMsg{id: m.ID, content: source}
		}
		rendered, rerr := renderer.Render(source)
		if rerr != nil {
			return detailRenderedMsg{id: m.ID, content: source}
		}
		return detailRenderedMsg{id: m.ID, content: rendered}
	}
}

// openDetail switches to the detail view for m.
func (a *App) openDetail(m tmdb.Movie) tea.Cmd {
	movie := m
	a.current = &movie
	a.view = ViewDetail
	a.loadingDetail = true
	return tea.Batch(
		a.setStatus(MsgLoadingDetail, StatusInfo, 0),
		a.spinner.Tick,
		a.renderDetail(movie),
	)
}

func (a *App) openPoster(m tmdb.Movie) tea.Cmd {
	if m.PosterPath == "" {
		return a.setStatus(MsgNoPoster, StatusWarn, statusTTL)
	}
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	path := m.PosterPath
	return tea.Batch(
		a.setStatus(MsgOpeningPoster, StatusInfo, statusTTL),
		func() tea.Msg {
			if err := opener.OpenPoster(path); err != nil {
				return errorMsg{err: wrapErr("open poster", err)}
			}
			return nil
		},
	)
}

func (a *App) openMoviePage(m tmdb.Movie) tea.Cmd {
	if a.opener == nil {
		return nil
	}
	opener := a.opener
	id := m.ID
	return tea.Batch(
		a.setStatus(MsgOpeningPage, StatusInfo, statusTTL),
		func() tea.Msg {
			if err := opener.OpenMoviePage(id); err != nil {
				return errorMsg{err: wrapErr("open TMDB page", err)}
			}
			return nil
		},
	)
}
