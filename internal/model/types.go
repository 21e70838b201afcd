// Package model defines shared data structures.
package model

import "time"

// Config defines trainer settings.
type Config struct {
	Frequency45     int
	Frequency90     int
	Frequency180    int
	DelayMs         int
	ShiftAfterTurns int
	ShiftAmount     int
	InitialHeading  int
	RoundToNearest  int
}

// Delay returns DelayMs as a duration.
func (c Config) Delay() time.Duration {
	if c.DelayMs < 0 {
		return 0
	}
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Direction is the side of a commanded turn.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Opposite returns the reverse turn direction.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

// Turn is a commanded direction and angle.
type Turn struct {
	Direction Direction
	Angle     int
}

// GameState is the controller state.
type GameState int

const (
	Idle GameState = iota
	Ready
	ShowingDirection
	ShowingAngle
	ShowingResult
)

func (s GameState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case ShowingDirection:
		return "showing-direction"
	case ShowingAngle:
		return "showing-angle"
	case ShowingResult:
		return "showing-result"
	default:
		return "unknown"
	}
}

// Session holds the statistics of one training run.
type Session struct {
	StartedAt    time.Time
	TurnCount    int
	TotalElapsed time.Duration
	AverageTurn  time.Duration
	// Wall is the live session clock, refreshed for display only.
	Wall time.Duration
}

// EventType identifies what a controller transition did.
type EventType int

const (
	EventTurnShown EventType = iota
	EventAngleRevealed
	EventTurnCompleted
	EventShiftApplied
	EventFlashEnded
)

func (t EventType) String() string {
	switch t {
	case EventTurnShown:
		return "TURN_SHOWN"
	case EventAngleRevealed:
		return "ANGLE_REVEALED"
	case EventTurnCompleted:
		return "TURN_COMPLETED"
	case EventShiftApplied:
		return "SHIFT_APPLIED"
	case EventFlashEnded:
		return "FLASH_ENDED"
	default:
		return "UNKNOWN"
	}
}

// Event is emitted by the controller for every state change it makes.
type Event struct {
	Type        EventType
	At          time.Time
	Turn        Turn
	FromHeading int
	ToHeading   int
	Elapsed     time.Duration
	TurnCount   int
}

// Snapshot is a read-only copy of controller state.
type Snapshot struct {
	State        GameState
	Heading      int
	Turn         Turn
	HasTurn      bool
	Session      Session
	Running      bool
	Flashing     bool
	LastShift    int
	NextDeadline time.Time
}

// TurnRecord is a journaled completed turn.
type TurnRecord struct {
	SessionID   int64
	Seq         int
	Direction   Direction
	Angle       int
	FromHeading int
	ToHeading   int
	ElapsedMs   int64
	CompletedAt time.Time
}

// ShiftRecord is a journaled heading shift.
type ShiftRecord struct {
	SessionID   int64
	AfterTurn   int
	FromHeading int
	ToHeading   int
	AppliedAt   time.Time
}

// AngleAggregate summarizes completed turns for one angle and direction.
type AngleAggregate struct {
	Angle     int
	Direction Direction
	Count     int
	TotalMs   int64
	BestMs    int64
	WorstMs   int64
}

// AverageMs returns the mean turn time of the aggregate.
func (a AngleAggregate) AverageMs() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.TotalMs) / float64(a.Count)
}
