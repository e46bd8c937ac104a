package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// CountdownMsg carries one pass of the countdown timers.
type CountdownMsg struct {
	Pass []domain.Countdown
}

// StoreChangedMsg reports that another process wrote the blob store.
type StoreChangedMsg struct{}

type Options struct {
	Query application.ViewQuery
	Tick  time.Duration
	// Watch, when set, calls onChange whenever the store changes until ctx is done.
	Watch  func(ctx context.Context, onChange func()) error
	Input  io.Reader
	Output io.Writer
}

type Result struct {
	// Navigated is true when the dashboard quit to hand over to another page.
	Navigated bool
}

type liveModel struct {
	ctx       context.Context
	dashboard *application.Dashboard
	timers    *application.Timers

	keys     keyMap
	help     help.Model
	search   textinput.Model
	styles   styles
	platform int

	req       application.RenderRequest
	selected  int
	notice    string
	warning   string
	navigated bool
}

func newLiveModel(ctx context.Context, dashboard *application.Dashboard, timers *application.Timers) liveModel {
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "creator, platform or item"
	search.CharLimit = 64

	m := liveModel{
		ctx:       ctx,
		dashboard: dashboard,
		timers:    timers,
		keys:      defaultKeyMap(),
		help:      help.New(),
		search:    search,
		styles:    newStyles(),
	}
	m.refresh()
	return m
}

// withQuery starts the model on query instead of every active pool.
func (m liveModel) withQuery(query application.ViewQuery) liveModel {
	m.search.SetValue(query.Search)
	for i, platform := range domain.FilterPlatforms {
		if platform == query.Platform {
			m.platform = i
		}
	}
	m.refresh()
	return m
}

func (m liveModel) Init() tea.Cmd {
	return nil
}

func (m liveModel) query() application.ViewQuery {
	return application.ViewQuery{
		Search:   m.search.Value(),
		Platform: domain.FilterPlatforms[m.platform],
	}
}

// refresh rebuilds the render request and points the timers at what is active.
func (m *liveModel) refresh() {
	m.req = m.dashboard.Render(m.query())
	m.dashboard.Track(m.timers)

	if m.selected >= len(m.req.Cards) {
		m.selected = len(m.req.Cards) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case CountdownMsg:
		return m.applyCountdowns(msg.Pass), nil
	case StoreChangedMsg:
		changed, err := m.dashboard.Reload(m.ctx)
		if err != nil {
			m.warning = err.Error()
			return m, nil
		}
		if changed {
			m.refresh()
			m.notice = "Pools updated"
		}
		return m, nil
	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	default:
		return m, nil
	}
}

func (m liveModel) applyCountdowns(pass []domain.Countdown) liveModel {
	expired := false
	for _, countdown := range pass {
		if countdown.Expired {
			expired = true
		}
		for i := range m.req.Cards {
			m.req.Cards[i] = m.req.Cards[i].WithCountdown(countdown)
		}
	}

	if expired {
		m.refresh()
	}
	return m
}

func (m liveModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m liveModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice, m.warning = "", ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.req.Cards)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.platform = 0
		m.refresh()
	case key.Matches(msg, m.keys.Platform):
		m.platform = (m.platform + 1) % len(domain.FilterPlatforms)
		m.refresh()
	case key.Matches(msg, m.keys.Reload):
		return m.Update(StoreChangedMsg{})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Join):
		m.join()
	case key.Matches(msg, m.keys.View):
		card, ok := m.current()
		if !ok {
			return m, nil
		}
		if err := m.dashboard.View(m.ctx, card.ID); err != nil {
			m.warning = err.Error()
			return m, nil
		}
		m.navigated = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quick):
		platform := m.req.QuickPlatform
		if platform == "" {
			platform = domain.FilterPlatforms[m.platform]
		}
		if err := m.dashboard.QuickPool(m.ctx, platform); err != nil {
			m.warning = err.Error()
			return m, nil
		}
		m.navigated = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *liveModel) join() {
	card, ok := m.current()
	if !ok {
		return
	}

	pool, err := m.dashboard.Join(m.ctx, card.ID)
	if err != nil {
		var joinErr *domain.JoinError
		if errors.As(err, &joinErr) {
			m.warning = joinErr.UserMessage()
		} else {
			m.warning = err.Error()
		}
		return
	}

	m.notice = fmt.Sprintf("Joined %s pool!", pool.Platform.DisplayName())
	m.refresh()
}

func (m liveModel) current() (application.Card, bool) {
	if m.selected < 0 || m.selected >= len(m.req.Cards) {
		return application.Card{}, false
	}
	return m.req.Cards[m.selected], true
}

func (m liveModel) View() string {
	parts := []string{renderView(m.req, RenderOptions{
		Selected: m.selected,
		Notice:   m.notice,
		Warning:  m.warning,
		Live:     true,
	}, m.styles)}

	if m.search.Focused() || m.search.Value() != "" {
		parts = append(parts, "", m.search.View())
	}
	parts = append(parts, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run drives the live dashboard until the user quits, navigates away or ctx is done.
// The countdown timers and the optional store watcher feed the program from their
// own goroutines; every dashboard mutation happens on the program's update loop.
func Run(ctx context.Context, dashboard *application.Dashboard, timers *application.Timers, opts Options) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(newLiveModel(ctx, dashboard, timers).withQuery(opts.Query), programOpts...)

	go func() {
		err := timers.Run(ctx, opts.Tick, func(pass []domain.Countdown) {
			p.Send(CountdownMsg{Pass: pass})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("countdown timers stopped")
		}
	}()

	if opts.Watch != nil {
		go func() {
			err := opts.Watch(ctx, func() { p.Send(StoreChangedMsg{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("store watcher stopped")
			}
		}()
	}

	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("run dashboard: %w", err)
	}

	final, ok := finalModel.(liveModel)
	if !ok {
		return Result{}, ErrUnexpectedRenderModel
	}

	return Result{Navigated: final.navigated}, nil
}
