package drill

import (
	"testing"
	"time"
)

func TestScheduleOrdersByDueThenInsertion(t *testing.T) {
	var s schedule
	s.add(actionBeginTurn, base.Add(2*time.Second))
	s.add(actionApplyShift, base.Add(1500*time.Millisecond))
	s.add(actionEndFlash, base.Add(2*time.Second))
	if len(s.timers) != 3 {
		t.Fatalf("expected 3 pending timers, got %d", len(s.timers))
	}

	if _, ok := s.pop(base.Add(time.Second)); ok {
		t.Fatalf("expected nothing due yet")
	}
	want := []action{actionApplyShift, actionBeginTurn, actionEndFlash}
	for _, a := range want {
		got, ok := s.pop(base.Add(3 * time.Second))
		if !ok {
			t.Fatalf("expected %s to be due", a)
		}
		if got.action != a {
			t.Fatalf("expected %s, got %s", a, got.action)
		}
	}
	if _, ok := s.next(); ok {
		t.Fatalf("expected empty schedule")
	}
}

func TestScheduleCancel(t *testing.T) {
	var s schedule
	s.add(actionRevealAngle, base)
	s.cancel()
	if len(s.timers) != 0 {
		t.Fatalf("expected cancel to drop timers")
	}
	if _, ok := s.pop(base.Add(time.Hour)); ok {
		t.Fatalf("expected no timer after cancel")
	}
}

func TestActionString(t *testing.T) {
	if got := actionRevealAngle.String(); got != "reveal-angle" {
		t.Fatalf("unexpected action name %q", got)
	}
	if got := action(99).String(); got != "unknown" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}
