package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"weasel/internal/chromosome"
	"weasel/internal/logging"
)

// Options configures the interactive model.
type Options struct {
	TickInterval time.Duration // delay between generations
	RateStep     float64
	CopiesStep   uint32
	MaxCopies    uint32
	AutoStart    bool
	Styles       *Styles
}

func (o *Options) setDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = 30 * time.Millisecond
	}
	if o.RateStep <= 0 {
		o.RateStep = 0.025
	}
	if o.CopiesStep == 0 {
		o.CopiesStep = 10
	}
	if o.MaxCopies == 0 {
		o.MaxCopies = 5000
	}
}

// stepMsg asks for one generation. epoch drops ticks scheduled before the
// last start/stop so a restart never runs two tick chains.
type stepMsg struct {
	epoch int
}

// Model is the bubbletea model driving one chromosome interactively.
type Model struct {
	chromo *chromosome.Chromosome
	opts   Options
	styles Styles
	keys   keyMap

	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	running bool
	editing bool
	epoch   int
	last    chromosome.Progress
	stepped bool
	err     error
	width   int
}

// NewModel wraps c. The chromosome should not be stepped elsewhere while the
// model runs.
func NewModel(c *chromosome.Chromosome, opts Options) Model {
	opts.setDefaults()
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	ti := textinput.New()
	ti.Prompt = "sentence> "
	ti.CharLimit = 256
	ti.SetValue(c.Target())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		chromo:   c,
		opts:     opts,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    ti,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		running:  opts.AutoStart,
		width:    80,
	}
}

// Init starts the spinner and, with AutoStart, the first generation.
func (m Model) Init() tea.Cmd {
	if m.running {
		return tea.Batch(m.spinner.Tick, m.tick())
	}
	return m.spinner.Tick
}

func (m Model) tick() tea.Cmd {
	epoch := m.epoch
	return tea.Tick(m.opts.TickInterval, func(time.Time) tea.Msg {
		return stepMsg{epoch: epoch}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(10, msg.Width-20)
		return m, nil

	case stepMsg:
		if !m.running || msg.epoch != m.epoch {
			return m, nil
		}
		return m.step()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) step() (tea.Model, tea.Cmd) {
	p, err := m.chromo.Step(context.Background())
	if err != nil {
		m.err = err
		m.running = false
		return m, nil
	}
	m.last = p
	m.stepped = true
	if p.Done() {
		m.running = false
		logging.UI("converged after %d generations", p.Generation)
		return m, nil
	}
	return m, m.tick()
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()

	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.running = false
		m.epoch++
		m.input.SetValue(m.chromo.Target())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.RateUp):
		m.setRate(m.chromo.MutationRate() + m.opts.RateStep)

	case key.Matches(msg, m.keys.RateDown):
		m.setRate(m.chromo.MutationRate() - m.opts.RateStep)

	case key.Matches(msg, m.keys.CopiesUp):
		m.setCopies(int64(m.chromo.Copies()) + int64(m.opts.CopiesStep))

	case key.Matches(msg, m.keys.CopiesDown):
		m.setCopies(int64(m.chromo.Copies()) - int64(m.opts.CopiesStep))

	case key.Matches(msg, m.keys.Reset):
		m.chromo.Reset()
		m.stepped = false
		m.err = nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	m.epoch++
	if m.running {
		m.running = false
		return m, nil
	}
	if m.stepped && m.last.Done() && m.last.RunID == m.chromo.RunID() {
		m.chromo.Reset()
		m.stepped = false
	}
	m.running = true
	m.err = nil
	return m, m.tick()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.err = nil
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		sentence := m.input.Value()
		if err := m.chromo.Alphabet().Validate(sentence); err != nil {
			m.err = err
			return m, nil
		}
		if err := m.chromo.SetTarget(sentence); err != nil {
			m.err = err
			return m, nil
		}
		logging.UIDebug("target set to %q", sentence)
		m.editing = false
		m.stepped = false
		m.err = nil
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setRate(r float64) {
	r = math.Round(r*1000) / 1000
	r = min(1, max(0, r))
	m.chromo.SetMutationRate(r)
}

func (m *Model) setCopies(n int64) {
	n = min(int64(m.opts.MaxCopies), max(0, n))
	m.chromo.SetCopies(uint32(n))
}

// Running reports whether generations are being stepped.
func (m Model) Running() bool {
	return m.running
}

// Last returns the most recent progress, if any generation has run.
func (m Model) Last() (chromosome.Progress, bool) {
	return m.last, m.stepped
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("weasel - cumulative selection"))
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.styles.Label.Render("target"))
		b.WriteString(m.styles.Body.Render(m.chromo.Target()))
	}
	b.WriteString("\n")

	snap := m.chromo.Snapshot()
	b.WriteString(m.styles.Label.Render("best"))
	b.WriteString(snap.RenderDiff(m.styles.Highlighter()))
	b.WriteString("\n")
	if markers := snap.Markers(); markers != "" {
		b.WriteString(m.styles.Label.Render(""))
		b.WriteString(m.styles.Muted.Render(markers))
	}
	b.WriteString("\n")

	fitness := m.chromo.BestFitness()
	size := snap.Size()
	var ratio float64
	if size > 0 {
		ratio = float64(size-int(fitness)) / float64(size)
	}
	b.WriteString(m.styles.Label.Render("match"))
	b.WriteString(m.progress.ViewAs(ratio))
	b.WriteString(fmt.Sprintf(" %d/%d\n", size-int(fitness), size))

	b.WriteString(m.styles.Label.Render("generation"))
	b.WriteString(fmt.Sprintf("%d\n", m.chromo.Generation()))
	b.WriteString(m.styles.Label.Render("rate"))
	b.WriteString(fmt.Sprintf("%.3f\n", m.chromo.MutationRate()))
	b.WriteString(m.styles.Label.Render("copies"))
	b.WriteString(fmt.Sprintf("%d\n\n", m.chromo.Copies()))

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
	case m.running:
		b.WriteString(m.spinner.View() + " " + m.styles.Info.Render("evolving"))
	case snap.Solved() && m.stepped:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("converged in %d generations", m.chromo.Generation())))
	default:
		b.WriteString(m.styles.Muted.Render("stopped"))
		if m.chromo.MutationRate() <= 0 || m.chromo.Copies() == 0 {
			b.WriteString("  " + m.styles.Warning.Render("rate or copies is zero; the run cannot improve"))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
