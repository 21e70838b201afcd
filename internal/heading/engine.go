// Package heading implements turn generation and compass heading arithmetic.
package heading

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/hdgdrill/internal/model"
)

// MinShift is the lower bound of a shift magnitude in degrees.
const MinShift = 10

var angles = [3]int{45, 90, 180}

// Engine generates turns and shifts from its random source.
type Engine struct {
	rnd *rand.Rand
}

// New returns an Engine seeded with the current time.
func New() *Engine {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns an Engine with a fixed seed.
func NewWithSeed(seed int64) *Engine {
	return &Engine{rnd: rand.New(rand.NewSource(seed))}
}

// GenerateTurn picks an angle by the configured weights and a direction by
// coin flip. A zero total weight falls back to a uniform angle.
func (e *Engine) GenerateTurn(cfg model.Config) model.Turn {
	weights := [3]float64{
		nonNegative(cfg.Frequency45),
		nonNegative(cfg.Frequency90),
		nonNegative(cfg.Frequency180),
	}
	total := weights[0] + weights[1] + weights[2]

	angle := angles[len(angles)-1]
	if total <= 0 {
		angle = angles[e.rnd.Intn(len(angles))]
	} else {
		r := e.rnd.Float64() * total
		acc := 0.0
		for i, w := range weights {
			acc += w
			if r < acc {
				angle = angles[i]
				break
			}
		}
	}

	dir := model.Left
	if e.rnd.Intn(2) == 1 {
		dir = model.Right
	}
	return model.Turn{Direction: dir, Angle: angle}
}

// Shift displaces a heading by a random magnitude in [MinShift, amount) with a
// random sign, then rounds it. It returns the new heading and the signed
// change actually applied.
func (e *Engine) Shift(h, amount, granularity int) (int, int) {
	magnitude := float64(MinShift)
	// Amounts at or below MinShift collapse to exactly amount.
	if amount <= MinShift {
		magnitude = math.Max(float64(amount), 0)
	} else {
		magnitude += e.rnd.Float64() * float64(amount-MinShift)
	}
	if e.rnd.Intn(2) == 0 {
		magnitude = -magnitude
	}
	shifted := float64(h) + magnitude
	for shifted <= 0 {
		shifted += 360
	}
	for shifted > 360 {
		shifted -= 360
	}
	next := Round(shifted, granularity)
	return next, Delta(h, next)
}

// ApplyTurn turns left (subtract) or right (add) and wraps into [1,360].
func ApplyTurn(h int, turn model.Turn) int {
	if turn.Direction == model.Right {
		return Normalize(h + turn.Angle)
	}
	return Normalize(h - turn.Angle)
}

// Round rounds half away from zero to the nearest multiple of granularity and
// wraps into [1,360]. The result is always a multiple of granularity, so when
// granularity does not divide 360 the ring ends at the largest multiple below
// 360 and a value that rounds to north lands there.
func Round(v float64, granularity int) int {
	if granularity <= 0 {
		granularity = 1
	}
	g := float64(granularity)
	top := 360 - 360%granularity
	wrapped := floorMod(int(math.Round(v/g))*granularity, 360)
	r := int(math.Round(float64(wrapped)/g)) * granularity
	if r <= 0 || r > 360 {
		return top
	}
	return r
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Normalize wraps h into [1,360]; 0 becomes 360.
func Normalize(h int) int {
	for h <= 0 {
		h += 360
	}
	for h > 360 {
		h -= 360
	}
	return h
}

// Delta returns the signed shortest rotation from a to b, in (-180,180].
func Delta(a, b int) int {
	d := (b - a) % 360
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

func nonNegative(v int) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}
