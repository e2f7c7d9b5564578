package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/typetest/internal/model"
)

// Source is the storage BuildReport reads from.
type Source interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultRecord, error)
	ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results         []model.ResultRecord
	WindowResultIDs []string
	CharAggsAll     []model.CharAggregate
	CharAggsWindow  []model.CharAggregate
	CurveWindow     int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load results: %w", err)
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}

	allIDs := resultIDs(results)
	windowIDs := lastResultIDs(results, cfg.CurveWindow)
	charAggsAll, err := src.ListCharAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load character stats: %w", err)
	}
	charAggsWindow, err := src.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load character stats: %w", err)
	}

	return Report{
		Results:         results,
		WindowResultIDs: windowIDs,
		CharAggsAll:     charAggsAll,
		CharAggsWindow:  charAggsWindow,
		CurveWindow:     cfg.CurveWindow,
	}, nil
}

// Render writes the plain-text report to w, fitting curves to width columns.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Results, r.CurveWindow, width); err != nil {
		return err
	}
	if err := RenderCharTable(w, r.CharAggsWindow); err != nil {
		return err
	}
	return RenderHistory(w, r.Results)
}

func resultIDs(results []model.ResultRecord) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func lastResultIDs(results []model.ResultRecord, window int) []string {
	if window <= 0 || len(results) <= window {
		return resultIDs(results)
	}
	return resultIDs(results[len(results)-window:])
}
