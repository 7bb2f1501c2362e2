// Package ui renders terminal progress of directory analysis.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"astroid/internal/driver"
)

// fileState is ordered: everything from stateDone on is finished.
type fileState uint8

const (
	stateQueued fileState = iota
	stateParsing
	stateImports
	stateDone
	stateCached
	stateFailed
)

var stateNames = [...]string{"queued", "parsing", "imports", "done", "cached", "error"}

// ANSI colors per state
var stateColors = [...]lipgloss.Color{"7", "6", "6", "2", "4", "1"}

func (s fileState) String() string { return stateNames[s] }

func (s fileState) finished() bool { return s >= stateDone }

// weight is the share of a file's work done once it reaches s.
func (s fileState) weight() float64 {
	switch {
	case s.finished():
		return 1
	case s == stateImports:
		return 0.8
	case s == stateParsing:
		return 0.4
	}
	return 0
}

type fileItem struct {
	path     string
	state    fileState
	cacheHit bool
	elapsed  time.Duration
	order    int // порядок завершения, 0 пока не закончен
}

// recentLimit bounds how many finished files stay listed; failures always stay.
const recentLimit = 8

type progressModel struct {
	title    string
	base     string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	items    []fileItem
	byPath   map[string]int
	pass     string
	width    int
	finished int
	done     bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows per-file driver
// progress until events is closed. Paths are shown relative to base.
func NewProgressModel(title, base string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		base:    base,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		// Ctrl+C: анализ отменяет вызывающий через контекст
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

// applyEvent folds a driver event into the model. Events without a file
// name the pass that is running.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if s, ok := workingState(ev.Stage); ok && ev.Status == driver.StatusWorking {
			m.pass = s.String()
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[i]
	switch ev.Status {
	case driver.StatusQueued:
		it.state = stateQueued
		return nil
	case driver.StatusWorking:
		if s, ok := workingState(ev.Stage); ok {
			it.state = s
		}
	case driver.StatusCached:
		it.cacheHit = true
		return nil
	case driver.StatusDone:
		it.state = stateDone
		if it.cacheHit {
			it.state = stateCached
		}
	case driver.StatusError:
		it.state = stateFailed
	default:
		return nil
	}
	if it.state.finished() && it.order == 0 {
		m.finished++
		it.order = m.finished
		it.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func workingState(stage driver.Stage) (fileState, bool) {
	switch stage {
	case driver.StageParse:
		return stateParsing, true
	case driver.StageImports:
		return stateImports, true
	}
	return stateQueued, false
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		sum += it.state.weight()
	}
	return sum / float64(len(m.items))
}

// visible lists in-flight files, failures and the most recently finished
// ones, in input order, plus how many queued files were left out.
func (m *progressModel) visible() (shown []fileItem, queued int) {
	for _, it := range m.items {
		switch {
		case it.state == stateQueued:
			queued++
		case it.state == stateFailed, !it.state.finished(), it.order > m.finished-recentLimit:
			shown = append(shown, it)
		}
	}
	return shown, queued
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.pass != "" {
		header += " (" + m.pass + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	shown, queued := m.visible()
	for _, it := range shown {
		st := lipgloss.NewStyle().Foreground(stateColors[it.state]).Render(fmt.Sprintf("%8s", it.state))
		elapsed := ""
		if it.state.finished() && it.elapsed > 0 {
			elapsed = formatElapsed(it.elapsed)
		}
		fmt.Fprintf(&b, "  %s %-9s %s\n", st, elapsed, truncate(m.display(it.path), nameWidth))
	}
	if queued > 0 {
		fmt.Fprintf(&b, "  %8s %d more\n", stateQueued, queued)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.summary()) + "\n")
	return b.String()
}

func (m *progressModel) display(path string) string {
	if m.base == "" {
		return path
	}
	if rel, err := filepath.Rel(m.base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

// summary: "3/5 files, 1 cached, 1 failed"
func (m *progressModel) summary() string {
	var cached, failed int
	for _, it := range m.items {
		switch it.state {
		case stateCached:
			cached++
		case stateFailed:
			failed++
		}
	}
	out := fmt.Sprintf("%d/%d files", m.finished, len(m.items))
	if cached > 0 {
		out += fmt.Sprintf(", %d cached", cached)
	}
	if failed > 0 {
		out += fmt.Sprintf(", %d failed", failed)
	}
	return out
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// truncate shortens value to width display columns, "..." included.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
