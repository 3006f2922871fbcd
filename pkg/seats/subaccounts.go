package seats

import (
	"context"
	"iter"
	"strconv"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/pagination"
)

// Subaccount collections. Subaccounts are ordered newest first.
var (
	SubaccountsResource         = pagination.Resource{Name: "subaccounts", Path: "/subaccounts"}
	ActiveSubaccountsResource   = pagination.Resource{Name: "active_subaccounts", Path: "/subaccounts/active"}
	InactiveSubaccountsResource = pagination.Resource{Name: "inactive_subaccounts", Path: "/subaccounts/inactive"}
)

// Subaccounts manages subaccounts.
type Subaccounts struct {
	transport *client.Client
	all       *pagination.Lister[Subaccount]
	active    *pagination.Lister[Subaccount]
	inactive  *pagination.Lister[Subaccount]
}

func newSubaccounts(transport *client.Client, fetcher *pagination.Fetcher) *Subaccounts {
	adapt := pagination.JSONAdapter[Subaccount]()
	return &Subaccounts{
		transport: transport,
		all:       pagination.NewLister(fetcher, SubaccountsResource, adapt),
		active:    pagination.NewLister(fetcher, ActiveSubaccountsResource, adapt),
		inactive:  pagination.NewLister(fetcher, InactiveSubaccountsResource, adapt),
	}
}

func subaccountPath(id int64) string {
	return "/subaccounts/" + strconv.FormatInt(id, 10)
}

// Create creates a subaccount. An empty name lets the server choose.
func (s *Subaccounts) Create(ctx context.Context, name string) (*Subaccount, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	return decode[*Subaccount](s.transport.Post(ctx, "/subaccounts", body))
}

// Retrieve fetches one subaccount.
func (s *Subaccounts) Retrieve(ctx context.Context, id int64) (*Subaccount, error) {
	return decode[*Subaccount](s.transport.Get(ctx, subaccountPath(id), ""))
}

// Activate reactivates a subaccount.
func (s *Subaccounts) Activate(ctx context.Context, id int64) error {
	return expectSuccess(s.transport.Post(ctx, subaccountPath(id)+"/actions/activate", nil))
}

// Deactivate deactivates a subaccount.
func (s *Subaccounts) Deactivate(ctx context.Context, id int64) error {
	return expectSuccess(s.transport.Post(ctx, subaccountPath(id)+"/actions/deactivate", nil))
}

func filterParams(filter string, pageSize int) pagination.Params {
	params := pagination.Params{}.WithFilter(filter)
	if pageSize > 0 {
		params = params.WithPageSize(pageSize)
	}
	return params
}

// List yields every subaccount matching params.
func (s *Subaccounts) List(ctx context.Context, params pagination.Params) iter.Seq2[Subaccount, error] {
	return s.all.All(ctx, params)
}

// ListAll yields every subaccount whose name contains filter.
// An empty filter yields all of them.
func (s *Subaccounts) ListAll(ctx context.Context, filter string) iter.Seq2[Subaccount, error] {
	return s.List(ctx, filterParams(filter, 0))
}

// ListFirstPage fetches the first page. pageSize <= 0 uses the server default.
func (s *Subaccounts) ListFirstPage(ctx context.Context, filter string, pageSize int) (*pagination.Page[Subaccount], error) {
	return s.all.FirstPage(ctx, filterParams(filter, pageSize))
}

// ListPageAfter fetches the page following cursor.
func (s *Subaccounts) ListPageAfter(ctx context.Context, cursor pagination.Cursor, filter string, pageSize int) (*pagination.Page[Subaccount], error) {
	return s.all.PageAfter(ctx, cursor, filterParams(filter, pageSize))
}

// ListPageBefore fetches the page preceding cursor.
func (s *Subaccounts) ListPageBefore(ctx context.Context, cursor pagination.Cursor, filter string, pageSize int) (*pagination.Page[Subaccount], error) {
	return s.all.PageBefore(ctx, cursor, filterParams(filter, pageSize))
}

// Active yields the active subaccounts.
func (s *Subaccounts) Active(ctx context.Context, params pagination.Params) iter.Seq2[Subaccount, error] {
	return s.active.All(ctx, params)
}

// Inactive yields the inactive subaccounts.
func (s *Subaccounts) Inactive(ctx context.Context, params pagination.Params) iter.Seq2[Subaccount, error] {
	return s.inactive.All(ctx, params)
}

// ActivePages yields the active subaccounts page by page.
func (s *Subaccounts) ActivePages(ctx context.Context, params pagination.Params) iter.Seq2[*pagination.Page[Subaccount], error] {
	return s.active.Pages(ctx, params)
}

// InactivePages yields the inactive subaccounts page by page.
func (s *Subaccounts) InactivePages(ctx context.Context, params pagination.Params) iter.Seq2[*pagination.Page[Subaccount], error] {
	return s.inactive.Pages(ctx, params)
}
