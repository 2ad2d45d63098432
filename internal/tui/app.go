package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debounce"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/display"
	"github.com/pders01/marquee/internal/search"
	"github.com/pders01/marquee/internal/tmdb"
)

const reflowQuiet = 150 * time.Millisecond

// Opener opens movie assets outside the terminal.
type Opener interface {
	OpenPoster(posterPath string) error
	OpenMoviePage(id int64) error
}

type App struct {
	ctx             context.Context
	cancel          context.CancelFunc
	config          *config.Config
	controller      *browse.Controller
	gate            *debounce.Gate[string]
	reflow          *debounce.Debouncer[int]
	send            func(tea.Msg)
	opener          Opener
	refiner         *search.Index
	keyHandler      *KeyHandler
	searchInput     textinput.Model
	resultList      list.Model
	viewport        viewport.Model
	spinner         spinner.Model
	view            View
	current         *tmdb.Movie
	inflight        context.CancelFunc
	loadingDetail   bool
	width           int
	height          int
	err             error
	statusText      string
	statusKind      StatusKind
	statusSeq       int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int // Track the width used for the renderer
}

func NewApp(ctx context.Context, cfg *config.Config, fetcher tmdb.MovieFetcher, opener Opener) *App {
	ctx, cancel := context.WithCancel(ctx)

	category, err := tmdb.ParseCategory(cfg.UI.DefaultCategory)
	if err != nil {
		debuglog.Warnf("tui: %v, using %s", err, tmdb.DefaultCategory)
		category = tmdb.DefaultCategory
	}

	controller := browse.NewController(fetcher,
		browse.WithCategory(category),
		browse.WithSkeletonCount(cfg.UI.SkeletonCount),
		browse.WithTrendingLimit(cfg.UI.TrendingLimit),
	)

	refiner, err := search.NewIndex()
	if err != nil {
		// Refining falls back to the list's fuzzy filter
		debuglog.Warnf("tui: %v", err)
		refiner = nil
	}

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(true)
	resultList.SetShowHelp(false) // status bar carries our own help
	resultList.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "Search for movies..."
	si.Prompt = "⌕ "
	if cfg.Search.MaxQueryLength > 0 {
		si.CharLimit = cfg.Search.MaxQueryLength
	}
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		ctx:         ctx,
		cancel:      cancel,
		config:      cfg,
		controller:  controller,
		gate:        debounce.NewGate[string](cfg.Search.Debounce),
		opener:      opener,
		refiner:     refiner,
		searchInput: si,
		resultList:  resultList,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		view:        ViewBrowse,
	}
	app.resultList.Filter = app.refineFilter
	app.reflow = debounce.New(reflowQuiet, func(width int) {
		// publish holds the debouncer lock; Send blocks on the event loop
		go app.dispatch(reflowMsg{width: width})
	})
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// SetSender connects the app to its running program so that work settled
// off the event loop can be delivered as messages.
func (a *App) SetSender(send func(tea.Msg)) {
	a.send = send
}

func (a *App) dispatch(msg tea.Msg) {
	if a.send != nil {
		a.send(msg)
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 100 {
		wordWrapWidth = 100 // maximum for readability
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40 // minimum for readability
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.startFetch(a.controller.Start()),
		a.fetchTrending(),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resized := msg.Width != a.width
		a.width = msg.Width
		a.height = msg.Height
		if resized && a.view == ViewDetail {
			a.reflow.Push(msg.Width)
		}

	case tea.KeyMsg:
		_, cmd := a.keyHandler.HandleKey(msg)
		cmds = append(cmds, cmd)

	case debounce.SettledMsg[string]:
		term, ok := a.gate.Settle(msg)
		if !ok {
			break
		}
		if req, issued := a.controller.Settle(term); issued {
			cmds = append(cmds, a.startFetch(req))
		}

	case moviesFetchedMsg:
		if !a.controller.Apply(msg.res) {
			break
		}
		a.finishFetch()
		state := a.controller.State()
		if state.ErrorMessage != "" {
			cmds = append(cmds, a.setStatus(MsgFetchFailed, StatusError, statusTTL))
			break
		}
		a.syncResults(state.Movies)
		if len(state.Movies) == 0 {
			cmds = append(cmds, a.setStatus(MsgNoResults, StatusWarn, statusTTL))
		} else {
			cmds = append(cmds, a.setStatus(MsgResultsCount(len(state.Movies)), StatusSuccess, statusTTL))
		}

	case trendingFetchedMsg:
		a.controller.ApplyTrending(msg.res)

	case detailRenderedMsg:
		if a.current == nil || a.current.ID != msg.id {
			break
		}
		a.loadingDetail = false
		a.viewport.SetContent(msg.content)
		a.viewport.GotoTop()
		cmds = append(cmds, a.setStatus("", StatusInfo, 0))

	case reflowMsg:
		if a.view == ViewDetail && a.current != nil {
			cmds = append(cmds, a.renderDetail(*a.current))
		}

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case statusClearMsg:
		a.clearStatus(msg.seq)

	case errorMsg:
		a.err = msg.err
		debuglog.Errorf("tui: %v", msg.err)

	default:
		// Filter results and cursor blinks
		switch {
		case a.view == ViewBrowse && a.searchInput.Focused():
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			cmds = append(cmds, cmd)
		case a.view == ViewBrowse:
			var cmd tea.Cmd
			a.resultList, cmd = a.resultList.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	a.layout()
	return a, tea.Batch(cmds...)
}

// busy reports whether anything the spinner stands for is in flight.
func (a *App) busy() bool {
	return a.controller.State().Loading || a.loadingDetail
}

// syncResults mirrors the applied movies into the list and the refine index.
func (a *App) syncResults(movies []tmdb.Movie) {
	items := make([]list.Item, len(movies))
	docs := make([]search.Document, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
		year := display.Year(m.ReleaseDate)
		if year == display.NotAvailable {
			year = ""
		}
		docs[i] = search.Document{
			Title:    m.Title,
			Overview: m.Overview,
			Language: m.OriginalLanguage,
			Year:     year,
		}
	}
	a.resultList.ResetFilter()
	a.resultList.SetItems(items)
	a.resultList.Select(0)

	if a.refiner != nil {
		if err := a.refiner.Reindex(docs); err != nil {
			debuglog.Warnf("tui: refine index: %v", err)
		}
	}
}

// refineFilter ranks the loaded movies with the bleve index. Targets are
// in item order, which is also the indexed document order.
func (a *App) refineFilter(term string, targets []string) []list.Rank {
	if a.refiner == nil || a.refiner.Len() != len(targets) {
		return list.DefaultFilter(term, targets)
	}
	hits, err := a.refiner.Search(term, len(targets))
	if err != nil {
		debuglog.Debugf("tui: refine %q: %v", term, err)
		return list.DefaultFilter(term, targets)
	}
	ranks := make([]list.Rank, 0, len(hits))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(targets) {
			continue
		}
		ranks = append(ranks, list.Rank{Index: h.Index})
	}
	return ranks
}

// layout sizes the components for the current window and view.
func (a *App) layout() {
	if a.width <= 0 || a.height <= 0 {
		return
	}

	inputWidth := a.width - 8
	if inputWidth > 60 {
		inputWidth = 60
	}
	if inputWidth < 10 {
		inputWidth = 10
	}
	a.searchInput.Width = inputWidth

	listHeight := a.height - lipgloss.Height(a.renderTop(a.controller.View())) - 2
	if listHeight < 3 {
		listHeight = 3
	}
	a.resultList.SetSize(a.width, listHeight)

	a.viewport.Width = a.width
	a.viewport.Height = a.height - 2 // Account for status bar
	if a.viewport.Height < 1 {
		a.viewport.Height = 1
	}
}

// shutdown stops pending work before the program exits.
func (a *App) shutdown() tea.Cmd {
	a.gate.Stop()
	a.reflow.Stop()
	if a.inflight != nil {
		a.inflight()
		a.inflight = nil
	}
	a.cancel()
	if a.refiner != nil {
		if err := a.refiner.Close(); err != nil {
			debuglog.Warnf("tui: close refine index: %v", err)
		}
	}
	return tea.Quit
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, a.height-2,
				a.spinner.View()+" "+renderMuted(MsgLoadingDetail))
		} else {
			content = a.viewport.View()
		}
	default:
		content = a.renderBrowse()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

// renderTop draws everything above the results body.
func (a *App) renderTop(v browse.View) string {
	sections := []string{
		LogoStyle.Render(CompactLogo) + " " + renderHelp("TMDB Movie Browser"),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
	}
	if v.ShowCategories {
		sections = append(sections, renderCategoryTabs(a.controller.State().SelectedCategory))
	}
	if v.ShowTrending {
		sections = append(sections, "", renderTrending(v.Trending, a.width))
	}
	sections = append(sections, "", renderHeader(v.Heading, "", a.width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderBrowse() string {
	v := a.controller.View()

	var body string
	switch v.Kind {
	case browse.RenderSkeleton:
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.spinner.View()+" "+renderMuted(MsgLoadingMovies),
			renderSkeletons(v.Skeletons, a.width),
		)
	case browse.RenderError:
		body = ErrorMessageStyle.Render(v.Message)
	case browse.RenderEmpty:
		body = renderMuted(v.Message)
	default:
		body = a.resultList.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, a.renderTop(v), body)
	if a.height <= 2 {
		return content
	}
	return ContentWrapper(a.width, a.height-2).Render(content)
}

func (a *App) getCustomStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if len(commands) == 0 {
		return ""
	}

	if a.err != nil {
		errorMsg := StatusErrorStyle.Render(truncateMiddle(fmt.Sprintf("✗ %v", a.err), a.width-2))

		return StatusBarStyle.Width(a.width).Render(errorMsg)
	}

	commandText := strings.Join(commands, " • ")
	if a.statusText != "" {
		commandText = a.statusKind.style().Render(a.statusText) + "  " + commandText
	}
	return StatusBarStyle.Width(a.width).Render(commandText)
}

type movieItem struct {
	movie tmdb.Movie
}

func (i movieItem) Title() string { return i.movie.Title }

func (i movieItem) Description() string {
	parts := []string{
		"★ " + display.Rating(i.movie.VoteAverage),
		display.Year(i.movie.ReleaseDate),
	}
	if lang := display.Language(i.movie.OriginalLanguage); lang != "" {
		parts = append(parts, lang)
	}
	return strings.Join(parts, " • ")
}

func (i movieItem) FilterValue() string { return i.movie.Title }

type moviesFetchedMsg struct {
	res browse.Result
}

type trendingFetchedMsg struct {
	res browse.TrendingResult
}

type detailRenderedMsg struct {
	id      int64
	content string
}

type reflowMsg struct {
	width int
}

type errorMsg struct {
	err error
}
