// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/hdgdrill/internal/model"
	"github.com/verte-zerg/hdgdrill/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	SessionID int64
	Turns     []model.TurnRecord
	Shifts    []model.ShiftRecord
	Angles    []model.AngleAggregate
	Summary   Summary
}

// BuildReport loads the journal of one session.
func BuildReport(ctx context.Context, st *store.Store, sessionID int64) (Report, error) {
	turns, err := st.ListTurns(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list turns: %w", err)
	}
	shifts, err := st.ListShifts(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list shifts: %w", err)
	}
	angles, err := st.AngleBreakdown(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate turns: %w", err)
	}
	return Report{
		SessionID: sessionID,
		Turns:     turns,
		Shifts:    shifts,
		Angles:    angles,
		Summary:   Summarize(turns, shifts),
	}, nil
}

// Render prints the full report: turn log, summary, breakdown and trend.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderTurnLog(w, r.Turns, r.Shifts); err != nil {
		return err
	}
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if len(r.Turns) == 0 {
		return nil
	}
	if err := RenderBreakdown(w, r.Angles); err != nil {
		return err
	}
	return RenderTrend(w, r.Turns, window, width)
}
