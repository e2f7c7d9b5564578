// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	statsPkg "github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/typing"
)

const ioTimeout = 5 * time.Second

// Recorder persists finished tests and serves history for the footer.
type Recorder interface {
	Save(ctx context.Context, summary model.ResultSummary, chars []model.CharStats) (model.ResultRecord, error)
	History(ctx context.Context, wordList string) ([]model.ResultRecord, error)
	WeakChars(ctx context.Context, window int, wordList string) ([]model.CharAggregate, error)
}

// Deps are the collaborators of the test screen.
type Deps struct {
	Recorder  Recorder
	Generator *generator.Generator
	Logger    *zap.Logger
	Clock     func() time.Time
}

type saveStatus int

const (
	saveIdle saveStatus = iota
	saveSkipped
	saveSaving
	saveSaved
	saveFailed
)

type savedMsg struct {
	seq    int
	record model.ResultRecord
	err    error
}

type historyMsg struct {
	records []model.ResultRecord
	err     error
}

type weakCharsMsg struct {
	aggs []model.CharAggregate
	err  error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	listName string
	pool     []model.Word
	punctSet []rune
	weakSet  map[rune]struct{}

	recorder Recorder
	gen      *generator.Generator
	logger   *zap.Logger

	session *typing.Session
	ticker  ticker
	focused bool

	saveSeq    int
	saveStatus saveStatus
	saveErr    error

	width  int
	height int

	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	testKeys testKeyMap
	doneKeys resultKeyMap

	lastWPM      int
	lastAcc      int
	hasLast      bool
	lastFromSave bool
	counted      map[string]struct{}
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	savedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle        = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a typing TUI model for words from listName.
func NewModel(cfg model.Config, listName string, words []model.Word, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := deps.Generator
	if gen == nil {
		gen = generator.New()
	}
	var opts []typing.Option
	if deps.Clock != nil {
		opts = append(opts, typing.WithClock(deps.Clock))
	}
	m := &Model{
		config:   cfg,
		listName: listName,
		pool:     words,
		punctSet: []rune(cfg.PunctSet),
		weakSet:  map[rune]struct{}{},
		counted:  map[string]struct{}{},
		recorder: deps.Recorder,
		gen:      gen,
		logger:   logger,
		focused:  true,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		testKeys: newTestKeyMap(),
		doneKeys: newResultKeyMap(),
	}
	m.session = typing.NewSession(m.generateWords(), m.sessionConfig(), opts...)
	return m
}

// Session exposes the running session for inspection.
func (m *Model) Session() *typing.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadHistoryCmd()}
	if m.config.FocusWeak {
		cmds = append(cmds, m.loadWeakCharsCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = m.contentWidth()
		return m, nil
	case tea.FocusMsg:
		m.focused = true
		return m, nil
	case tea.BlurMsg:
		m.focused = false
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.ticker.accept(msg) {
			return m, nil
		}
		cmd := m.dispatch(typing.TimerTick{})
		if m.ticker.active {
			cmd = tea.Batch(cmd, m.ticker.schedule())
		}
		return m, cmd
	case savedMsg:
		return m, m.handleSaved(msg)
	case historyMsg:
		m.handleHistory(msg)
		return m, nil
	case weakCharsMsg:
		m.handleWeakChars(msg)
		return m, nil
	case spinner.TickMsg:
		if m.saveStatus != saveSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if !m.focused {
		return m, nil
	}
	if m.session.Status() == typing.Finished {
		switch {
		case key.Matches(msg, m.doneKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.doneKeys.Restart):
			return m, m.restart()
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.testKeys.Start):
		return m, m.dispatch(typing.Start{})
	case key.Matches(msg, m.testKeys.Restart):
		return m, m.restart()
	case key.Matches(msg, m.testKeys.Finish):
		return m, m.dispatch(typing.ForceFinish{})
	}
	ev, ok := keyEvent(msg)
	if !ok {
		m.logger.Debug("ignored key", zap.String("key", msg.String()))
		return m, nil
	}
	return m, m.dispatch(ev)
}

// dispatch is the single entry point into the session. It starts the ticker
// when a test begins and stops it as soon as the test leaves Running.
func (m *Model) dispatch(ev typing.Event) tea.Cmd {
	before := m.session.Status()
	if !m.session.Dispatch(ev) {
		return nil
	}
	after := m.session.Status()
	if before == after {
		return nil
	}
	var cmds []tea.Cmd
	if after == typing.Running {
		cmds = append(cmds, m.ticker.start())
	} else if before == typing.Running {
		m.ticker.stop()
	}
	if after == typing.Finished {
		cmds = append(cmds, m.finish())
	}
	return tea.Batch(cmds...)
}

func (m *Model) restart() tea.Cmd {
	m.saveSeq++
	m.saveStatus = saveIdle
	m.saveErr = nil
	return m.dispatch(typing.Reset{Words: m.generateWords(), Config: m.sessionConfig()})
}

func (m *Model) finish() tea.Cmd {
	summary, ok := m.session.Summary()
	if !ok {
		return nil
	}
	typed := summary.CorrectChars + summary.IncorrectChars
	if summary.TestDurationMs <= 0 || typed == 0 || m.recorder == nil {
		m.saveStatus = saveSkipped
		return nil
	}
	m.saveSeq++
	m.saveStatus = saveSaving
	return tea.Batch(m.spinner.Tick, saveCmd(m.recorder, m.saveSeq, summary, m.session.CharStats()))
}

func saveCmd(rec Recorder, seq int, summary model.ResultSummary, chars []model.CharStats) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		record, err := rec.Save(ctx, summary, chars)
		return savedMsg{seq: seq, record: record, err: err}
	}
}

func (m *Model) handleSaved(msg savedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("failed to save result", zap.Error(msg.err))
	} else {
		m.countResult(msg.record)
		m.setLast(msg.record)
		m.lastFromSave = true
	}
	if msg.seq == m.saveSeq {
		if msg.err != nil {
			m.saveStatus = saveFailed
			m.saveErr = msg.err
		} else {
			m.saveStatus = saveSaved
		}
	}
	if msg.err == nil && m.config.FocusWeak {
		return m.loadWeakCharsCmd()
	}
	return nil
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	rec := m.recorder
	if rec == nil {
		return nil
	}
	list := m.listName
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		records, err := rec.History(ctx, list)
		return historyMsg{records: records, err: err}
	}
}

func (m *Model) handleHistory(msg historyMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to load result history", zap.Error(msg.err))
		return
	}
	// A save that landed first already owns the last-result slot.
	for _, r := range msg.records {
		if m.countResult(r) && !m.lastFromSave {
			m.setLast(r)
		}
	}
}

func (m *Model) loadWeakCharsCmd() tea.Cmd {
	rec := m.recorder
	if rec == nil {
		return nil
	}
	window := m.config.WeakWindow
	list := m.listName
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		aggs, err := rec.WeakChars(ctx, window, list)
		return weakCharsMsg{aggs: aggs, err: err}
	}
}

func (m *Model) handleWeakChars(msg weakCharsMsg) {
	if msg.err != nil {
		m.logger.Warn("failed to load weak chars", zap.Error(msg.err))
		return
	}
	if len(msg.aggs) == 0 {
		m.logger.Info("no stats available for weak-char focus yet; using normal generator")
		m.weakSet = map[rune]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(msg.aggs, m.config.WeakTop)
	m.logger.Debug("weak chars updated", zap.Int("count", len(m.weakSet)))
	// Untouched tests pick up the new weighting right away.
	if m.session.Status() == typing.Waiting {
		m.session.Dispatch(typing.Reset{Words: m.generateWords(), Config: m.sessionConfig()})
	}
}

// countResult adds r to the all-time totals once per record ID and reports
// whether it was counted.
func (m *Model) countResult(r model.ResultRecord) bool {
	if r.ID != "" {
		if _, ok := m.counted[r.ID]; ok {
			return false
		}
		m.counted[r.ID] = struct{}{}
	}
	m.allCorrect += r.CorrectChars
	m.allIncorrect += r.IncorrectChars
	m.allDuration += r.TestDurationMs
	return true
}

func (m *Model) setLast(r model.ResultRecord) {
	m.lastWPM = r.WPM
	m.lastAcc = r.Accuracy
	m.hasLast = true
}

func (m *Model) generateWords() []model.Word {
	opts := generator.Options{
		Count:    m.config.Words,
		CapsPct:  m.config.CapsPct,
		PunctPct: m.config.PunctPct,
		PunctSet: m.punctSet,
	}
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		opts.WeakSet = m.weakSet
		opts.WeakFactor = m.config.WeakFactor
	}
	return m.gen.Pick(m.pool, opts)
}

func (m *Model) sessionConfig() typing.Config {
	return typing.Config{
		DurationSeconds: m.config.DurationSeconds,
		WordListID:      m.listName,
	}
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.session.Status() == typing.Finished {
		return m.renderResults()
	}
	frame := typing.Project(m.session)
	styledRunes := buildStyledRunes(frame.Cells)
	if m.width == 0 || m.height == 0 {
		return m.renderHeader(frame) + "\n\n" + renderStyledRunes(styledRunes)
	}
	contentWidth := m.contentWidth()
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(frame),
		m.progress.ViewAs(m.elapsedFraction()),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(wrapped),
	)
	footer := m.renderFooter(frame)
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.help.View(m.testKeys))
	return body + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) elapsedFraction() float64 {
	total := m.session.Config().DurationSeconds
	if total <= 0 {
		return 0
	}
	return 1 - float64(m.session.TimeRemaining())/float64(total)
}

func (m *Model) renderHeader(frame typing.Frame) string {
	parts := []string{
		fmt.Sprintf("%ds", frame.TimeRemaining),
		fmt.Sprintf("%d wpm", frame.Metrics.WPM),
		fmt.Sprintf("%d%%", frame.Metrics.Accuracy),
	}
	if frame.Status == typing.Waiting {
		parts = append(parts, "start typing or press enter")
	}
	if !m.focused {
		parts = append(parts, "paused input")
	}
	return headerStyle.Render(strings.Join(parts, "  "))
}

func (m *Model) renderFooter(frame typing.Frame) string {
	total := len(frame.Cells)
	if total == 0 {
		return footerStyle.Render("No words to type")
	}
	progressPct := frame.Cursor * 100 / total
	segments := []string{m.listName, fmt.Sprintf("Progress %d%%", progressPct)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %d%%", m.lastWPM, m.lastAcc))
	}
	segments = append(segments, fmt.Sprintf("All-time %d WPM · %d%%",
		typing.WPM(m.allCorrect, m.allDuration),
		typing.Accuracy(m.allCorrect, m.allIncorrect)))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResults() string {
	metrics := m.session.Metrics()
	elapsed := time.Duration(m.session.ElapsedMs()) * time.Millisecond
	rows := []string{
		headerStyle.Render("Test complete"),
		"",
		titleStyle.Render("WPM       ") + valueStyle.Render(fmt.Sprintf("%d", metrics.WPM)),
		titleStyle.Render("Accuracy  ") + valueStyle.Render(fmt.Sprintf("%d%%", metrics.Accuracy)),
		titleStyle.Render("Chars     ") + valueStyle.Render(fmt.Sprintf("%d correct · %d incorrect · %d total",
			metrics.CorrectChars, metrics.IncorrectChars, metrics.TotalChars)),
		titleStyle.Render("Time      ") + valueStyle.Render(fmt.Sprintf("%.1fs", elapsed.Seconds())),
		"",
		performanceMessage(metrics.WPM),
		m.renderSaveStatus(),
	}
	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	helpView := m.help.View(m.doneKeys)
	if m.width == 0 || m.height == 0 {
		return card + "\n" + helpView
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, "", helpView))
}

func (m *Model) renderSaveStatus() string {
	switch m.saveStatus {
	case saveSaving:
		return m.spinner.View() + " saving result"
	case saveSaved:
		return savedStyle.Render("result saved")
	case saveFailed:
		return errorStyle.Render(fmt.Sprintf("result not saved: %v", m.saveErr))
	case saveSkipped:
		return footerStyle.Render("result not saved: nothing typed")
	default:
		return ""
	}
}

func performanceMessage(wpm int) string {
	switch {
	case wpm >= 70:
		return "Excellent! You're a typing master!"
	case wpm >= 50:
		return "Very good! Keep practicing!"
	case wpm >= 30:
		return "Good job! You're improving!"
	default:
		return "Keep practicing! You'll get better!"
	}
}
