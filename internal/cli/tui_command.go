package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"sync"
	"time"

	"yt-clip-batcher/internal/clipjob"
	"yt-clip-batcher/internal/config"
	"yt-clip-batcher/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tuiMode int

const (
	tuiModeForm tuiMode = iota
	tuiModeRunning
	tuiModeDone
)

const (
	tuiFieldInput = iota
	tuiFieldOutput
	tuiFieldCount
)

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	tuiOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	tuiPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// logBuffer hands worker log lines to the TUI without blocking the
// worker. The TUI drains it on its tick schedule.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *logBuffer) Append(format string, args ...any) {
	b.mu.Lock()
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
	b.mu.Unlock()
}

func (b *logBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return nil
	}
	out := b.lines
	b.lines = nil
	return out
}

type tuiModel struct {
	cfg    config.Config
	inputs []textinput.Model
	focus  int

	strategy string
	pacing   bool

	mode     tuiMode
	spin     spinner.Model
	vp       viewport.Model
	vpReady  bool
	logLines []string
	buffer   *logBuffer
	stop     *clipjob.Stop
	cancel   context.CancelFunc

	summary       *model.RunSummary
	runErr        error
	statusMessage string
	width         int
	height        int
}

type tuiLogTickMsg time.Time

type tuiRunDoneMsg struct {
	summary model.RunSummary
	err     error
}

func runTUI(args []string) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	input := fs.String("input", "", "pre-fill the input CSV path")
	output := fs.String("output", "", "pre-fill the output directory")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("tui requires an interactive terminal (TTY)")
	}

	m := newTUIModel(cfg, strings.TrimSpace(*input), strings.TrimSpace(*output))
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("tui requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(tuiModel); ok && fm.runErr != nil {
		return fm.runErr
	}
	return nil
}

func newTUIModel(cfg config.Config, inputPath, outputDir string) tuiModel {
	inputs := make([]textinput.Model, tuiFieldCount)

	ti := textinput.New()
	ti.Placeholder = "jobs.csv"
	ti.SetValue(inputPath)
	ti.Focus()
	ti.CharLimit = 512
	inputs[tuiFieldInput] = ti

	to := textinput.New()
	to.Placeholder = "clips/"
	to.SetValue(outputDir)
	to.CharLimit = 512
	inputs[tuiFieldOutput] = to

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tuiTitleStyle

	return tuiModel{
		cfg:      cfg,
		inputs:   inputs,
		strategy: cfg.Strategy,
		pacing:   cfg.Pacing,
		mode:     tuiModeForm,
		spin:     sp,
		buffer:   &logBuffer{},
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := msg.Height - 12
		if logHeight < 4 {
			logHeight = 4
		}
		if !m.vpReady {
			m.vp = viewport.New(msg.Width-4, logHeight)
			m.vpReady = true
		} else {
			m.vp.Width = msg.Width - 4
			m.vp.Height = logHeight
		}
		m.refreshViewport()
		return m, nil

	case tuiLogTickMsg:
		if drained := m.buffer.Drain(); len(drained) > 0 {
			m.logLines = append(m.logLines, drained...)
			m.refreshViewport()
		}
		if m.mode == tuiModeRunning {
			return m, tuiLogTickCmd()
		}
		return m, nil

	case tuiRunDoneMsg:
		// One final drain so late lines are not lost.
		if drained := m.buffer.Drain(); len(drained) > 0 {
			m.logLines = append(m.logLines, drained...)
		}
		m.refreshViewport()
		m.mode = tuiModeDone
		summary := msg.summary
		m.summary = &summary
		m.runErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.mode != tuiModeRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case tuiModeForm:
		return m.updateForm(keyMsg)
	case tuiModeRunning:
		return m.updateRunning(keyMsg)
	case tuiModeDone:
		return m.updateDone(keyMsg)
	default:
		return m, nil
	}
}

func (m tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		m.focus = (m.focus + 1) % tuiFieldCount
		return m.applyFocus(), nil
	case "shift+tab", "up":
		m.focus = (m.focus + tuiFieldCount - 1) % tuiFieldCount
		return m.applyFocus(), nil
	case "ctrl+s":
		if m.strategy == config.StrategyRange {
			m.strategy = config.StrategyLocal
		} else {
			m.strategy = config.StrategyRange
		}
		return m, nil
	case "ctrl+p":
		m.pacing = !m.pacing
		return m, nil
	case "enter":
		input := strings.TrimSpace(m.inputs[tuiFieldInput].Value())
		output := strings.TrimSpace(m.inputs[tuiFieldOutput].Value())
		if input == "" || output == "" {
			m.statusMessage = "input CSV and output directory are both required"
			return m, nil
		}
		return m.startRun(input, output)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m tuiModel) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		m.stop.Request()
		m.statusMessage = "stop requested, finishing current clip"
		return m, nil
	case "ctrl+c":
		m.stop.Request()
		if m.cancel != nil {
			m.cancel()
		}
		m.statusMessage = "aborting in-flight work"
		return m, nil
	}
	return m, nil
}

func (m tuiModel) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc", "enter":
		return m, tea.Quit
	case "r":
		m.mode = tuiModeForm
		m.summary = nil
		m.runErr = nil
		m.logLines = nil
		m.statusMessage = ""
		m.refreshViewport()
		return m.applyFocus(), textinput.Blink
	}
	return m, nil
}

func (m tuiModel) applyFocus() tuiModel {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m tuiModel) startRun(input, output string) (tea.Model, tea.Cmd) {
	m.mode = tuiModeRunning
	m.statusMessage = ""
	m.logLines = nil
	m.stop = &clipjob.Stop{}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	pacing := clipjob.DefaultPacing()
	pacing.Enabled = m.pacing

	opts := clipjob.RunOptions{
		InputCSV:   input,
		OutputDir:  output,
		ScratchDir: m.cfg.ScratchDir,
		Strategy:   m.strategy,
		Quality:    m.cfg.Quality,
		Pacing:     pacing,
		Log:        m.buffer.Append,
		Stop:       m.stop,
		YTDLPBin:   m.cfg.YTDLPBin,
		FFmpegBin:  m.cfg.FFmpegBin,
	}
	historyDB := m.cfg.HistoryDB

	return m, tea.Batch(
		m.spin.Tick,
		tuiLogTickCmd(),
		func() tea.Msg {
			if store, err := openHistory(historyDB); err == nil {
				defer store.Close()
				opts.History = store
			}
			summary, runErr := clipjob.Run(ctx, opts)
			return tuiRunDoneMsg{summary: summary, err: runErr}
		},
	)
}

func tuiLogTickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tuiLogTickMsg(t)
	})
}

func (m *tuiModel) refreshViewport() {
	if !m.vpReady {
		return
	}
	m.vp.SetContent(strings.Join(m.logLines, "\n"))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(tuiTitleStyle.Render("yt-clip-batcher"))
	b.WriteString("\n\n")

	switch m.mode {
	case tuiModeForm:
		b.WriteString("input CSV:  " + m.inputs[tuiFieldInput].View() + "\n")
		b.WriteString("output dir: " + m.inputs[tuiFieldOutput].View() + "\n\n")
		b.WriteString(fmt.Sprintf("strategy: %s    pacing: %s\n", m.strategy, onOff(m.pacing)))
		b.WriteString(tuiMutedStyle.Render("enter start · tab switch field · ctrl+s strategy · ctrl+p pacing · esc quit"))
	case tuiModeRunning:
		b.WriteString(m.spin.View() + " running " + m.strategy + " batch\n\n")
		if m.vpReady {
			b.WriteString(tuiPanelStyle.Render(m.vp.View()))
			b.WriteString("\n")
		}
		b.WriteString(tuiMutedStyle.Render("s stop after current clip · ctrl+c abort"))
	case tuiModeDone:
		if m.runErr != nil {
			b.WriteString(tuiErrorStyle.Render("run failed: "+m.runErr.Error()) + "\n\n")
		} else if m.summary != nil {
			state := tuiOKStyle.Render("finished")
			if m.summary.Canceled {
				state = tuiErrorStyle.Render("canceled")
			}
			b.WriteString(fmt.Sprintf("%s  clips %d/%d produced, %d failed\n",
				state, m.summary.ClipsProduced, m.summary.ClipsRequested, m.summary.ClipsFailed))
			b.WriteString(fmt.Sprintf("rows: %d completed, %d partially failed, %d canceled\n\n",
				m.summary.RowsCompleted, m.summary.RowsPartiallyFailed, m.summary.RowsCanceled))
		}
		if m.vpReady && len(m.logLines) > 0 {
			b.WriteString(tuiPanelStyle.Render(m.vp.View()))
			b.WriteString("\n")
		}
		b.WriteString(tuiMutedStyle.Render("r new run · q quit"))
	}

	if m.statusMessage != "" {
		b.WriteString("\n" + tuiMutedStyle.Render(m.statusMessage))
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
