package seats

import (
	"context"
	"iter"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/pagination"
)

// ArchiveResource is the collection of archived charts.
var ArchiveResource = pagination.Resource{
	Name: "archived_charts",
	Path: "/charts/archived",
}

// Charts manages charts, their tags, drafts and the archive.
type Charts struct {
	transport *client.Client
	archive   *pagination.Lister[Chart]
}

func newCharts(transport *client.Client, fetcher *pagination.Fetcher) *Charts {
	return &Charts{
		transport: transport,
		archive:   pagination.NewLister(fetcher, ArchiveResource, pagination.JSONAdapter[Chart]()),
	}
}

// Create creates a chart named name. An empty name lets the server choose.
func (c *Charts) Create(ctx context.Context, name string) (*Chart, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	return decode[*Chart](c.transport.Post(ctx, "/charts", body))
}

// Retrieve fetches one chart.
func (c *Charts) Retrieve(ctx context.Context, chartKey string) (*Chart, error) {
	return decode[*Chart](c.transport.Get(ctx, "/charts/"+segment(chartKey), ""))
}

// MoveToArchive archives a chart.
func (c *Charts) MoveToArchive(ctx context.Context, chartKey string) error {
	return expectSuccess(c.transport.Post(ctx, "/charts/"+segment(chartKey)+"/actions/move-to-archive", nil))
}

// MoveOutOfArchive restores an archived chart.
func (c *Charts) MoveOutOfArchive(ctx context.Context, chartKey string) error {
	return expectSuccess(c.transport.Post(ctx, "/charts/"+segment(chartKey)+"/actions/move-out-of-archive", nil))
}

// AddTag tags a chart. The tag may contain any character.
func (c *Charts) AddTag(ctx context.Context, chartKey, tag string) error {
	return expectSuccess(c.transport.Post(ctx, "/charts/"+segment(chartKey)+"/tags/"+segment(tag), nil))
}

// RemoveTag removes a tag from a chart.
func (c *Charts) RemoveTag(ctx context.Context, chartKey, tag string) error {
	return expectSuccess(c.transport.Delete(ctx, "/charts/"+segment(chartKey)+"/tags/"+segment(tag)))
}

// RetrieveDraftVersion returns the drawing of the chart's draft.
func (c *Charts) RetrieveDraftVersion(ctx context.Context, chartKey string) (map[string]any, error) {
	return decode[map[string]any](c.transport.Get(ctx, "/charts/"+segment(chartKey)+"/version/draft", ""))
}

// DiscardDraftVersion drops the chart's draft.
func (c *Charts) DiscardDraftVersion(ctx context.Context, chartKey string) error {
	return expectSuccess(c.transport.Post(ctx, "/charts/"+segment(chartKey)+"/version/draft/actions/discard", nil))
}

// Archive yields every archived chart.
func (c *Charts) Archive(ctx context.Context, params pagination.Params) iter.Seq2[Chart, error] {
	return c.archive.All(ctx, params)
}

// ArchivePages yields the archive page by page.
func (c *Charts) ArchivePages(ctx context.Context, params pagination.Params) iter.Seq2[*pagination.Page[Chart], error] {
	return c.archive.Pages(ctx, params)
}

// ListArchiveFirstPage fetches the first page of the archive.
func (c *Charts) ListArchiveFirstPage(ctx context.Context, params pagination.Params) (*pagination.Page[Chart], error) {
	return c.archive.FirstPage(ctx, params)
}

// ListArchivePageAfter fetches the archive page following cursor.
func (c *Charts) ListArchivePageAfter(ctx context.Context, cursor pagination.Cursor, params pagination.Params) (*pagination.Page[Chart], error) {
	return c.archive.PageAfter(ctx, cursor, params)
}

// ListArchivePageBefore fetches the archive page preceding cursor.
func (c *Charts) ListArchivePageBefore(ctx context.Context, cursor pagination.Cursor, params pagination.Params) (*pagination.Page[Chart], error) {
	return c.archive.PageBefore(ctx, cursor, params)
}
