// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/hdgdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary condenses a session's journal.
type Summary struct {
	Turns   int
	Shifts  int
	Total   time.Duration
	Average time.Duration
	Best    time.Duration
	Worst   time.Duration
}

// Summarize computes turn time totals and extremes.
func Summarize(turns []model.TurnRecord, shifts []model.ShiftRecord) Summary {
	s := Summary{Turns: len(turns), Shifts: len(shifts)}
	for i, t := range turns {
		d := time.Duration(t.ElapsedMs) * time.Millisecond
		s.Total += d
		if i == 0 || d < s.Best {
			s.Best = d
		}
		if d > s.Worst {
			s.Worst = d
		}
	}
	if s.Turns > 0 {
		s.Average = s.Total / time.Duration(s.Turns)
	}
	return s
}

// TurnLabel renders a turn as "L 90°".
func TurnLabel(dir model.Direction, angle int) string {
	side := "L"
	if dir == model.Right {
		side = "R"
	}
	return fmt.Sprintf("%s %d°", side, angle)
}

// Seconds formats a duration in seconds with one decimal.
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// TurnSeconds extracts turn times in seconds.
func TurnSeconds(turns []model.TurnRecord) []float64 {
	out := make([]float64, len(turns))
	for i, t := range turns {
		out[i] = float64(t.ElapsedMs) / 1000.0
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the session summary.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Turns == 0 {
		_, err := fmt.Fprintln(w, "No turns completed.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Turns: %d", s.Turns),
		fmt.Sprintf("Shifts: %d", s.Shifts),
		fmt.Sprintf("Total turn time: %s", Seconds(s.Total)),
		fmt.Sprintf("Avg/turn: %s", Seconds(s.Average)),
		fmt.Sprintf("Best: %s", Seconds(s.Best)),
		fmt.Sprintf("Worst: %s", Seconds(s.Worst)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBreakdown prints per-angle turn time aggregates.
func RenderBreakdown(w io.Writer, aggs []model.AngleAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No turn stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Turn"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "Turn"},
		column{title: "Count", right: true},
		column{title: "Avg (s)", right: true},
		column{title: "Best (s)", right: true},
		column{title: "Worst (s)", right: true},
	)
	for _, agg := range aggs {
		tbl.add(
			TurnLabel(agg.Direction, agg.Angle),
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.2f", agg.AverageMs()/1000),
			fmt.Sprintf("%.2f", float64(agg.BestMs)/1000),
			fmt.Sprintf("%.2f", float64(agg.WorstMs)/1000),
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTurnLog prints every turn with the shift that followed it, if any.
func RenderTurnLog(w io.Writer, turns []model.TurnRecord, shifts []model.ShiftRecord) error {
	if len(turns) == 0 {
		return nil
	}
	shiftAfter := make(map[int]model.ShiftRecord, len(shifts))
	for _, s := range shifts {
		shiftAfter[s.AfterTurn] = s
	}
	if _, err := fmt.Fprintln(w, "Turns"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "#", right: true},
		column{title: "Turn"},
		column{title: "From", right: true},
		column{title: "To", right: true},
		column{title: "Time (s)", right: true},
		column{title: "Shift"},
	)
	for _, t := range turns {
		shift := ""
		if s, ok := shiftAfter[t.Seq]; ok {
			shift = fmt.Sprintf("%03d -> %03d", s.FromHeading, s.ToHeading)
		}
		tbl.add(
			fmt.Sprintf("%d", t.Seq),
			TurnLabel(t.Direction, t.Angle),
			fmt.Sprintf("%03d", t.FromHeading),
			fmt.Sprintf("%03d", t.ToHeading),
			fmt.Sprintf("%.2f", float64(t.ElapsedMs)/1000),
			shift,
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a sparkline of the moving average turn time, keeping
// the most recent values that fit in width.
func RenderTrend(w io.Writer, turns []model.TurnRecord, window, width int) error {
	values := MovingAverage(TurnSeconds(turns), window)
	if len(values) == 0 {
		return nil
	}
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if _, err := fmt.Fprintf(w, "Turn time trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}
