package seats

import (
	"context"

	"github.com/Sternrassler/seats-client/pkg/client"
)

// ChartReports lists the objects of a published chart, grouped.
type ChartReports struct {
	transport *client.Client
}

func (r *ChartReports) fetch(ctx context.Context, chartKey, groupBy string) (map[string][]ChartObjectInfo, error) {
	return decode[map[string][]ChartObjectInfo](r.transport.Get(ctx, "/reports/charts/"+segment(chartKey)+"/"+groupBy, ""))
}

// ByLabel groups the chart's objects by label.
func (r *ChartReports) ByLabel(ctx context.Context, chartKey string) (map[string][]ChartObjectInfo, error) {
	return r.fetch(ctx, chartKey, "byLabel")
}

// ByCategoryKey groups the chart's objects by category key.
func (r *ChartReports) ByCategoryKey(ctx context.Context, chartKey string) (map[string][]ChartObjectInfo, error) {
	return r.fetch(ctx, chartKey, "byCategoryKey")
}

// ByCategoryLabel groups the chart's objects by category label.
func (r *ChartReports) ByCategoryLabel(ctx context.Context, chartKey string) (map[string][]ChartObjectInfo, error) {
	return r.fetch(ctx, chartKey, "byCategoryLabel")
}
