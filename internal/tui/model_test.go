package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hdgdrill/internal/config"
	"github.com/verte-zerg/hdgdrill/internal/drill"
	"github.com/verte-zerg/hdgdrill/internal/heading"
	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T) (*Model, *fakeClock, *store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctrl := drill.New(heading.NewWithSeed(7), config.Defaults(), drill.DefaultTimings())
	m := NewModel(ctrl, st)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m.now = clock.Now
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, clock, st
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func wake(m *Model, clock *fakeClock) {
	m.Update(wakeMsg(clock.Now()))
}

func TestStartKeySchedulesLeadIn(t *testing.T) {
	m, clock, _ := newTestModel(t)

	_, cmd := m.Update(keyRune('s'))
	if cmd == nil {
		t.Fatalf("expected a wake command after start")
	}
	if m.sessionID == 0 {
		t.Fatalf("expected session to be journaled")
	}
	if got := m.ctrl.Snapshot().State; got != model.Ready {
		t.Fatalf("expected ready, got %s", got)
	}
	if !m.wakeAt.Equal(clock.Now().Add(time.Second)) {
		t.Fatalf("expected wake at lead-in end, got %v", m.wakeAt)
	}

	clock.Advance(time.Second)
	wake(m, clock)
	if got := m.ctrl.Snapshot().State; got != model.ShowingDirection {
		t.Fatalf("expected direction shown, got %s", got)
	}
}

func TestAcknowledgeJournalsTurn(t *testing.T) {
	m, clock, st := newTestModel(t)
	m.Update(keyRune('s'))
	clock.Advance(time.Second)
	wake(m, clock)
	clock.Advance(time.Second)
	wake(m, clock)
	if got := m.ctrl.Snapshot().State; got != model.ShowingAngle {
		t.Fatalf("expected angle shown, got %s", got)
	}

	clock.Advance(750 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})

	snap := m.ctrl.Snapshot()
	if snap.State != model.ShowingResult || snap.Session.TurnCount != 1 {
		t.Fatalf("unexpected snapshot after ack: %+v", snap)
	}
	turns, err := st.ListTurns(context.Background(), m.sessionID)
	if err != nil {
		t.Fatalf("list turns: %v", err)
	}
	if len(turns) != 1 || turns[0].ElapsedMs != 1750 {
		t.Fatalf("unexpected journal: %+v", turns)
	}
	if len(m.angles) != 1 || len(m.breakdown.Rows()) != 1 {
		t.Fatalf("expected one breakdown row, got %d", len(m.breakdown.Rows()))
	}
}

func TestMouseClickAcknowledges(t *testing.T) {
	m, clock, _ := newTestModel(t)
	m.Update(keyRune('s'))
	clock.Advance(2 * time.Second)
	wake(m, clock)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.ctrl.Snapshot().Session.TurnCount; got != 1 {
		t.Fatalf("expected click to complete a turn, got %d", got)
	}
}

func TestResetDropsJournal(t *testing.T) {
	m, clock, st := newTestModel(t)
	m.Update(keyRune('s'))
	clock.Advance(2 * time.Second)
	wake(m, clock)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	id := m.sessionID

	m.Update(keyRune('r'))
	snap := m.ctrl.Snapshot()
	if snap.State != model.Idle || snap.Session.TurnCount != 0 || snap.Heading != 360 {
		t.Fatalf("unexpected snapshot after reset: %+v", snap)
	}
	if m.sessionID != 0 || len(m.angles) != 0 {
		t.Fatalf("expected model journal state cleared")
	}
	turns, err := st.ListTurns(context.Background(), id)
	if err != nil {
		t.Fatalf("list turns: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected session deleted, got %d turns", len(turns))
	}
}

func TestPauseKeepsStats(t *testing.T) {
	m, clock, _ := newTestModel(t)
	m.Update(keyRune('s'))
	clock.Advance(2 * time.Second)
	wake(m, clock)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})

	_, cmd := m.Update(keyRune('p'))
	if cmd != nil {
		t.Fatalf("expected no wake after pause")
	}
	snap := m.ctrl.Snapshot()
	if snap.Running || snap.Session.TurnCount != 1 {
		t.Fatalf("unexpected snapshot after pause: %+v", snap)
	}
	if !strings.Contains(m.View(), "Paused") {
		t.Fatalf("expected paused status in view")
	}
}

func TestSettingsApplyToNextSession(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(keyRune('c'))
	if !m.settingsMode {
		t.Fatalf("expected settings mode")
	}
	m.settingsInputs[6].SetValue("90")
	m.settingsInputs[7].SetValue("10")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.settingsMode {
		t.Fatalf("expected settings closed, error %q", m.settingsError)
	}
	cfg := m.ctrl.Config()
	if cfg.InitialHeading != 90 || cfg.RoundToNearest != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestSettingsRejectInvalidValues(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(keyRune('c'))
	m.settingsInputs[5].SetValue("200")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.settingsMode || !strings.Contains(m.settingsError, "--shift-amount") {
		t.Fatalf("expected validation error, got %q", m.settingsError)
	}

	m.settingsInputs[5].SetValue("abc")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.settingsError, "whole number") {
		t.Fatalf("expected parse error, got %q", m.settingsError)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.settingsMode {
		t.Fatalf("expected esc to close settings")
	}
	if got := m.ctrl.Config().ShiftAmount; got != 15 {
		t.Fatalf("expected config untouched, got shift amount %d", got)
	}
}

func TestSettingsIgnoreDrillKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(keyRune('c'))
	m.Update(keyRune('s'))
	if m.ctrl.Snapshot().Running {
		t.Fatalf("expected start key to be swallowed by settings")
	}
}

func TestViewShowsHeadingAndTurn(t *testing.T) {
	m, clock, _ := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "360°") || !strings.Contains(view, "Press s") {
		t.Fatalf("unexpected idle view: %q", view)
	}

	m.Update(keyRune('s'))
	clock.Advance(2 * time.Second)
	wake(m, clock)
	turn := m.ctrl.Snapshot().Turn
	view = m.View()
	word := "LEFT"
	if turn.Direction == model.Right {
		word = "RIGHT"
	}
	if !strings.Contains(view, word) {
		t.Fatalf("expected %s in view", word)
	}
	if !strings.Contains(view, fmt.Sprintf("%d°", turn.Angle)) {
		t.Fatalf("expected angle %d in view", turn.Angle)
	}
}

func TestFormatHeading(t *testing.T) {
	if got := formatHeading(5); got != "005°" {
		t.Fatalf("expected zero padded heading, got %q", got)
	}
}
