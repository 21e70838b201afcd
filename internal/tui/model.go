// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hdgdrill/internal/drill"
	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/store"
)

// frameInterval refreshes the session clock on screen.
const frameInterval = 100 * time.Millisecond

// frameTickMsg triggers a display refresh.
type frameTickMsg time.Time

// wakeMsg is delivered when the controller's next deadline is reached.
type wakeMsg time.Time

// Model implements the Bubble Tea drill UI.
type Model struct {
	ctrl  *drill.Controller
	store *store.Store
	now   func() time.Time

	width  int
	height int

	sessionID int64
	angles    []model.AngleAggregate
	breakdown table.Model

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string

	wakeAt time.Time
}

// NewModel constructs a drill TUI model. The store may be nil, in which case
// nothing is journaled.
func NewModel(ctrl *drill.Controller, st *store.Store) *Model {
	m := &Model{
		ctrl:  ctrl,
		store: st,
		now:   time.Now,
	}
	m.breakdown = buildBreakdownTable(nil, 0, 1)
	m.initSettingsInputs()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return frameTickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.breakdown.SetWidth(breakdownWidth(m.width))
		return m, nil
	case frameTickMsg:
		m.ctrl.Tick(m.now())
		return m, frameTickCmd()
	case wakeMsg:
		m.wakeAt = time.Time{}
		m.handleEvents(m.ctrl.Advance(m.now()))
		return m, m.scheduleWake()
	case tea.MouseMsg:
		if m.settingsMode {
			return m, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.acknowledge()
		}
		return m, m.scheduleWake()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "enter":
			m.acknowledge()
		case "s":
			m.start()
		case "p":
			m.ctrl.Pause(m.now())
		case "r":
			m.reset()
		case "c":
			return m.startSettings()
		}
		return m, m.scheduleWake()
	}
	return m, nil
}

func (m *Model) acknowledge() {
	m.handleEvents(m.ctrl.Acknowledge(m.now()))
}

func (m *Model) start() {
	now := m.now()
	if !m.ctrl.Start(now) {
		return
	}
	m.sessionID = 0
	m.angles = nil
	m.refreshBreakdown()
	if m.store == nil {
		return
	}
	id, err := m.store.BeginSession(context.Background(), now, m.ctrl.Config())
	if err != nil {
		log.Printf("failed to journal session: %v", err)
		return
	}
	m.sessionID = id
}

func (m *Model) reset() {
	m.ctrl.Reset(m.now())
	if m.store != nil && m.sessionID != 0 {
		if err := m.store.DeleteSession(context.Background(), m.sessionID); err != nil {
			log.Printf("failed to drop session %d: %v", m.sessionID, err)
		}
	}
	m.sessionID = 0
	m.angles = nil
	m.refreshBreakdown()
}

// scheduleWake asks Bubble Tea for a message at the controller's next
// deadline, unless one is already pending for that time.
func (m *Model) scheduleWake() tea.Cmd {
	next, ok := m.ctrl.NextDeadline()
	if !ok || next.Equal(m.wakeAt) {
		return nil
	}
	m.wakeAt = next
	d := next.Sub(m.now())
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return wakeMsg(t)
	})
}

func (m *Model) handleEvents(events []model.Event) {
	for _, ev := range events {
		log.Printf("%s turn=%d hdg %03d -> %03d", ev.Type, ev.TurnCount, ev.FromHeading, ev.ToHeading)
		if m.store == nil || m.sessionID == 0 {
			continue
		}
		if err := m.store.RecordEvent(context.Background(), m.sessionID, ev); err != nil {
			log.Printf("%v", err)
			continue
		}
		if ev.Type == model.EventTurnCompleted {
			m.loadBreakdown()
		}
	}
}

func (m *Model) loadBreakdown() {
	aggs, err := m.store.AngleBreakdown(context.Background(), m.sessionID)
	if err != nil {
		log.Printf("failed to load turn breakdown: %v", err)
		return
	}
	m.angles = aggs
	m.refreshBreakdown()
}

func (m *Model) refreshBreakdown() {
	m.breakdown.SetRows(breakdownRows(m.angles))
	m.breakdown.SetHeight(maxInt(1, len(m.angles)+1))
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
