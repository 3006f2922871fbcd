package seats

import (
	"context"
	"iter"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/pagination"
)

// WorkspacesResource is the collection of workspaces of the company.
var WorkspacesResource = pagination.Resource{Name: "workspaces", Path: "/workspaces"}

// Workspaces manages workspaces.
type Workspaces struct {
	transport *client.Client
	lister    *pagination.Lister[Workspace]
}

func newWorkspaces(transport *client.Client, fetcher *pagination.Fetcher) *Workspaces {
	return &Workspaces{
		transport: transport,
		lister:    pagination.NewLister(fetcher, WorkspacesResource, pagination.JSONAdapter[Workspace]()),
	}
}

type createWorkspaceRequest struct {
	Name   string `json:"name"`
	IsTest bool   `json:"isTest"`
}

// Create creates a workspace.
func (w *Workspaces) Create(ctx context.Context, name string, isTest bool) (*Workspace, error) {
	return decode[*Workspace](w.transport.Post(ctx, "/workspaces", createWorkspaceRequest{Name: name, IsTest: isTest}))
}

// List yields every workspace matching params.
func (w *Workspaces) List(ctx context.Context, params pagination.Params) iter.Seq2[Workspace, error] {
	return w.lister.All(ctx, params)
}

// ListAll yields every workspace whose name contains filter.
func (w *Workspaces) ListAll(ctx context.Context, filter string) iter.Seq2[Workspace, error] {
	return w.List(ctx, filterParams(filter, 0))
}

// ListFirstPage fetches the first page. pageSize <= 0 uses the server default.
func (w *Workspaces) ListFirstPage(ctx context.Context, filter string, pageSize int) (*pagination.Page[Workspace], error) {
	return w.lister.FirstPage(ctx, filterParams(filter, pageSize))
}

// ListPageAfter fetches the page following cursor.
func (w *Workspaces) ListPageAfter(ctx context.Context, cursor pagination.Cursor, filter string, pageSize int) (*pagination.Page[Workspace], error) {
	return w.lister.PageAfter(ctx, cursor, filterParams(filter, pageSize))
}

// ListPageBefore fetches the page preceding cursor.
func (w *Workspaces) ListPageBefore(ctx context.Context, cursor pagination.Cursor, filter string, pageSize int) (*pagination.Page[Workspace], error) {
	return w.lister.PageBefore(ctx, cursor, filterParams(filter, pageSize))
}
