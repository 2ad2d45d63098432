package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/tmdb"
)

const defaultMaxQueryLength = 256

type KeyHandler struct {
	app            *App
	config         *config.Config
	modifierKey    string
	maxQueryLength int
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	maxLen := cfg.Search.MaxQueryLength
	if maxLen <= 0 {
		maxLen = defaultMaxQueryLength
	}
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey, maxQueryLength: maxLen}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Any key acknowledges a shown error
	kh.app.err = nil

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if kh.isRefining() {
		return kh.delegateToCharm(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewBrowse && kh.app.searchInput.Focused()
}

// isRefining reports whether the result list owns the keyboard for its
// filter prompt.
func (kh *KeyHandler) isRefining() bool {
	return kh.app.view == ViewBrowse && kh.app.resultList.FilterState() == list.Filtering
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return kh.app, kh.app.shutdown()
	case "esc":
		if kh.app.searchInput.Value() != "" {
			kh.app.searchInput.SetValue("")
			return kh.app, kh.searchChanged()
		}
		kh.app.searchInput.Blur()
		return kh.app, nil
	case "enter", "tab", "down":
		kh.app.searchInput.Blur()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search input and schedules a
// settle when the text changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newInput

	if kh.app.searchInput.Value() == prev {
		return kh.app, cmd
	}
	return kh.app, tea.Batch(cmd, kh.searchChanged())
}

// searchChanged records the raw text immediately and schedules its settled
// form after the quiet period.
func (kh *KeyHandler) searchChanged() tea.Cmd {
	raw := kh.app.searchInput.Value()
	kh.app.controller.SetSearchTerm(raw)
	return kh.app.gate.Schedule(kh.sanitizeSearchInput(raw))
}

// handleCustomKeys handles only the keys we intercept before Charm
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c":
		return kh.app, kh.app.shutdown(), true
	case "q":
		return kh.app, kh.app.shutdown(), true
	}

	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleBrowseCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.modifierKey + "s", "i", "tab", "shift+tab":
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case "up":
		if kh.app.resultList.Index() == 0 {
			model, cmd := kh.enterSearchMode()
			return model, cmd, true
		}
	case "1", "2", "3", "4":
		if kh.categoryKeysActive() {
			cats := tmdb.Categories()
			idx := int(key[0] - '1')
			if idx < len(cats) {
				return kh.app, kh.selectCategory(cats[idx]), true
			}
		}
	case "left", "right":
		if kh.categoryKeysActive() {
			return kh.app, kh.cycleCategory(key == "right"), true
		}
	case "enter":
		if m, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.app.openDetail(m), true
		}
		return kh.app, nil, true
	case kh.modifierKey + "o":
		if m, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.app.openPoster(m), true
		}
		return kh.app, nil, true
	case kh.modifierKey + "w":
		if m, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.app.openMoviePage(m), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "esc", "backspace":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.modifierKey + "o":
		if kh.app.current != nil {
			return kh.app, kh.app.openPoster(*kh.app.current), true
		}
		return kh.app, nil, true
	case kh.modifierKey + "w":
		if kh.app.current != nil {
			return kh.app, kh.app.openMoviePage(*kh.app.current), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// categoryKeysActive reports whether the category selector is on screen.
func (kh *KeyHandler) categoryKeysActive() bool {
	return !kh.app.controller.State().Searching()
}

func (kh *KeyHandler) selectCategory(cat tmdb.Category) tea.Cmd {
	req, issued := kh.app.controller.SelectCategory(cat)
	if !issued {
		return nil
	}
	return kh.app.startFetch(req)
}

func (kh *KeyHandler) cycleCategory(forward bool) tea.Cmd {
	cats := tmdb.Categories()
	current := kh.app.controller.State().SelectedCategory
	idx := 0
	for i, c := range cats {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(cats)
	} else {
		idx = (idx - 1 + len(cats)) % len(cats)
	}
	return kh.selectCategory(cats[idx])
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	}

	return kh.app, nil
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewDetail:
		kh.app.view = ViewBrowse
		kh.app.current = nil
		kh.app.loadingDetail = false
		return kh.app, nil
	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.view = ViewBrowse
	return kh.app, kh.app.searchInput.Focus()
}

// sanitizeSearchInput collapses whitespace and caps the length of search
// text before it is settled.
func (kh *KeyHandler) sanitizeSearchInput(input string) string {
	input = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Collapse multiple spaces
	input = strings.Join(strings.Fields(input), " ")

	// Length limit for search queries
	if r := []rune(input); len(r) > kh.maxQueryLength {
		input = strings.TrimSpace(string(r[:kh.maxQueryLength]))
	}

	return input
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewBrowse:
		if kh.app.searchInput.Focused() {
			return []string{"enter: results", "esc: clear", "ctrl+c: quit"}
		}
		if kh.isRefining() {
			return []string{"enter: apply", "esc: cancel"}
		}
		help := []string{"i: search"}
		if kh.categoryKeysActive() {
			help = append(help, "1-4: category")
		}
		if len(kh.app.resultList.Items()) > 0 {
			help = append(help, "/: refine", "enter: details", kh.modifierKey+"o: poster", kh.modifierKey+"w: tmdb")
		}
		return append(help, "q: quit")

	case ViewDetail:
		return []string{"esc: back", kh.modifierKey + "o: poster", kh.modifierKey + "w: tmdb"}

	default:
		return []string{}
	}
}

// selectedMovie returns the movie under the list cursor while the list
// is on screen.
func (a *App) selectedMovie() (tmdb.Movie, bool) {
	if a.controller.View().Kind != browse.RenderList {
		return tmdb.Movie{}, false
	}
	if i, ok := a.resultList.SelectedItem().(movieItem); ok {
		return i.movie, true
	}
	return tmdb.Movie{}, false
}
