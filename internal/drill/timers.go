package drill

import (
	"sort"
	"time"
)

type action int

const (
	actionBeginTurn action = iota
	actionRevealAngle
	actionApplyShift
	actionEndFlash
)

func (a action) String() string {
	switch a {
	case actionBeginTurn:
		return "begin-turn"
	case actionRevealAngle:
		return "reveal-angle"
	case actionApplyShift:
		return "apply-shift"
	case actionEndFlash:
		return "end-flash"
	default:
		return "unknown"
	}
}

type timer struct {
	action action
	due    time.Time
	seq    uint64
}

// schedule is a queue of one-shot delayed actions ordered by due time, then
// by the order they were added.
type schedule struct {
	timers []timer
	seq    uint64
}

func (s *schedule) add(a action, due time.Time) {
	s.seq++
	s.timers = append(s.timers, timer{action: a, due: due, seq: s.seq})
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})
}

func (s *schedule) cancel() {
	s.timers = nil
}

func (s *schedule) next() (time.Time, bool) {
	if len(s.timers) == 0 {
		return time.Time{}, false
	}
	return s.timers[0].due, true
}

// pop removes and returns the earliest timer due at or before now.
func (s *schedule) pop(now time.Time) (timer, bool) {
	if len(s.timers) == 0 || s.timers[0].due.After(now) {
		return timer{}, false
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return t, true
}
