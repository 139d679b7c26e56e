package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rigidsim/internal/world"
)

const (
	frameRate    = 30
	mapWidth     = 48
	mapRows      = 8
	sparkWidth   = 48
	historyLimit = 256
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Live steps a world in the Bubble Tea update loop. The world is only ever
// touched from Update, so it needs no locking.
type Live struct {
	title        string
	w            *world.World
	steps        int
	stepsPerTick int

	last     world.Stats
	done     int
	paused   bool
	err      error
	pairs    []float64
	awake    []float64
	width    int
	finished bool
}

func NewLive(title string, w *world.World, steps, stepsPerTick int) *Live {
	return &Live{
		title:        title,
		w:            w,
		steps:        steps,
		stepsPerTick: max(stepsPerTick, 1),
		width:        80,
	}
}

func (m *Live) Init() tea.Cmd { return tick() }

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if !m.paused && !m.finished {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "s":
		if m.paused && !m.finished {
			m.advance(1)
		}
	case "w":
		for _, c := range m.w.Compounds() {
			if !c.IsActive() {
				c.Wake()
			}
		}
	}
	return m, nil
}

func (m *Live) advance(n int) {
	for i := 0; i < n && m.done < m.steps; i++ {
		st, err := m.w.Step()
		if err != nil {
			m.err = err
			m.finished = true
			return
		}
		m.last = st
		m.done++
		m.pairs = appendBounded(m.pairs, float64(st.SubPairs))
		m.awake = appendBounded(m.awake, float64(st.ActiveIslands))
	}
	if m.done >= m.steps {
		m.finished = true
	}
}

func appendBounded(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > historyLimit {
		values = values[len(values)-historyLimit:]
	}
	return values
}

func (m *Live) Err() error { return m.err }

func (m *Live) Done() int { return m.done }

func (m *Live) View() string {
	var b strings.Builder

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = SparkLow.Render("ERROR")
	case m.finished:
		status = StatusDone.Render("DONE")
	case m.paused:
		status = StatusPaused.Render("PAUSED")
	}
	b.WriteString(HeaderStyle.Render(Title.Render(m.title)+"  "+status) + "\n\n")

	b.WriteString(ProgressBar(float64(m.done)/float64(max(m.steps, 1)), 40))
	b.WriteString(Subtle.Render(fmt.Sprintf("  step %d/%d  t=%.2fs", m.done, m.steps, m.last.Time)) + "\n\n")

	metrics := lipgloss.JoinHorizontal(lipgloss.Top,
		metric("bodies", fmt.Sprintf("%d/%d", m.last.ActiveBodies, m.last.Bodies)),
		metric("islands", fmt.Sprintf("%d/%d", m.last.ActiveIslands, m.last.Islands)),
		metric("handlers", fmt.Sprint(m.last.Handlers)),
		metric("sub-pairs", fmt.Sprint(m.last.SubPairs)),
		metric("+/-", fmt.Sprintf("%d/%d", m.last.PairsAdded, m.last.PairsRemoved)),
	)
	b.WriteString(metrics + "\n\n")

	b.WriteString(Panel.Render(IslandMap(m.w.Islands().Islands(), mapWidth, mapRows)) + "\n")
	b.WriteString(MetricLabel.Render("sub-pairs     ") + SparklineChart(m.pairs, sparkWidth) + "\n")
	b.WriteString(MetricLabel.Render("awake islands ") + SparklineChart(m.awake, sparkWidth) + "\n")
	b.WriteString(Separator(max(min(m.width, 64), 8)) + "\n")

	if m.err != nil {
		b.WriteString(SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString(KeyHint.Render("space pause · s step · w wake all · q quit"))
	return b.String()
}

func metric(label, value string) string {
	return lipgloss.NewStyle().PaddingRight(3).Render(MetricLabel.Render(label) + " " + MetricValue.Render(value))
}

// RunLive runs the live view until the user quits.
func RunLive(m *Live) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return m.Err()
}
