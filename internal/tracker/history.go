package tracker

import (
	"context"
	"io"

	"github.com/lfmelo/macrod/internal/model"
)

// History returns per-day totals plus weight/water over a date range.
// Online only; the report spans far more days than the cache retains.
func (t *Tracker) History(ctx context.Context, startDate, endDate string) ([]model.HistoryDay, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.History(ctx, startDate, endDate)
}

// ExportCSV streams the server's CSV export for a date range to w.
func (t *Tracker) ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error {
	if !t.online() {
		return ErrOffline
	}
	return t.remote.ExportCSV(ctx, startDate, endDate, w)
}
