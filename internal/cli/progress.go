package cli

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/search"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// searchEventMsg carries one coordinator progress event.
type searchEventMsg struct {
	event search.Event
}

// searchDoneMsg carries the final result once the search returns.
type searchDoneMsg struct {
	result models.IntegratedSearchResult
	err    error
}

// searchProgressModel is the bubbletea model for multi-round search progress.
type searchProgressModel struct {
	progress progress.Model
	theme    Theme
	cancel   context.CancelFunc

	round       int
	totalRounds int
	keywords    []string
	qualified   int
	target      int
	checked     int
	skipped     int
	scoring     bool

	result   models.IntegratedSearchResult
	err      error
	done     bool
	quitting bool
}

// newSearchProgressModel creates a new progress model.
func newSearchProgressModel(cancel context.CancelFunc) searchProgressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return searchProgressModel{
		progress: prog,
		theme:    defaultTheme,
		cancel:   cancel,
	}
}

// Init returns the initial command.
func (m searchProgressModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m searchProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Cancel the search; the coordinator returns what it has
			// and the done message follows.
			m.quitting = true
			m.cancel()
			return m, nil
		}

	case searchEventMsg:
		ev := msg.event
		switch ev.Kind {
		case search.EventRoundStarted:
			m.round = ev.Round
			m.totalRounds = ev.TotalRounds
			m.keywords = ev.Keywords
			m.scoring = false
		case search.EventRepoChecked:
			m.checked = ev.Checked
			m.skipped = ev.Skipped
		case search.EventRepoAccepted:
			m.qualified = ev.Qualified
			m.target = ev.Target
		case search.EventScoring:
			m.scoring = true
		}
		return m, nil

	case searchDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		// Update progress bar animation
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m searchProgressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m searchProgressModel) renderContent() string {
	if m.done {
		return ""
	}

	if m.round == 0 {
		return "Starting search...\n"
	}

	var pct float64
	if m.target > 0 {
		pct = float64(m.qualified) / float64(m.target)
		if pct > 1 {
			pct = 1
		}
	}

	status := m.theme.statusStyle().Render(
		fmt.Sprintf("[round %d/%d]", m.round, m.totalRounds))
	if m.scoring {
		status = m.theme.statusStyle().Render("[scoring]")
	}

	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d repos", m.qualified, m.target)

	keywords := m.theme.hintStyle().Render(
		fmt.Sprintf("keywords: %s  checked: %d  skipped: %d",
			strings.Join(m.keywords, ", "), m.checked, m.skipped))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop and keep partial results")

	return fmt.Sprintf("%s %s %s\n%s\n%s\n", status, progressBar, counts, keywords, hint)
}

// runSearchProgress runs the interactive progress UI around a search. The
// run callback receives a cancellable context and a progress sink and must
// return the final result; cancelling the context yields partial results
// rather than an error.
func runSearchProgress(
	ctx context.Context,
	run func(ctx context.Context, onProgress func(search.Event)) (models.IntegratedSearchResult, error),
) (models.IntegratedSearchResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSearchProgressModel(cancel))

	go func() {
		result, err := run(runCtx, func(ev search.Event) {
			p.Send(searchEventMsg{event: ev})
		})
		p.Send(searchDoneMsg{result: result, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return models.IntegratedSearchResult{}, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(searchProgressModel)
	if !ok {
		return models.IntegratedSearchResult{}, fmt.Errorf("unexpected model type")
	}
	if m.err != nil {
		return models.IntegratedSearchResult{}, m.err
	}
	if m.quitting {
		fmt.Println(defaultTheme.hintStyle().Render("Search stopped; showing partial results."))
	}
	return m.result, nil
}
