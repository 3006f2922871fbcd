package seats

import (
	"context"
	"iter"
	"net/http"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/pagination"
)

// statusChangeSorts maps sort modes onto the status change log's sort keys.
var statusChangeSorts = map[pagination.SortMode]string{
	pagination.SortByLabel:         "objectLabel",
	pagination.SortByStatus:        "status",
	pagination.SortByDateAscending: "date:asc",
}

// StatusChangesResource describes the status change log of eventKey.
func StatusChangesResource(eventKey string) pagination.Resource {
	return pagination.Resource{
		Name:       "status_changes",
		Path:       "/events/" + segment(eventKey) + "/status-changes",
		SortValues: statusChangeSorts,
	}
}

// Events manages events and their objects.
type Events struct {
	transport *client.Client
	fetcher   *pagination.Fetcher
	adapt     pagination.Adapter[StatusChange]
}

func newEvents(transport *client.Client, fetcher *pagination.Fetcher) *Events {
	return &Events{
		transport: transport,
		fetcher:   fetcher,
		adapt:     pagination.JSONAdapter[StatusChange](),
	}
}

// Create creates an event for chartKey.
func (e *Events) Create(ctx context.Context, chartKey string) (*Event, error) {
	return decode[*Event](e.transport.Post(ctx, "/events", map[string]string{"chartKey": chartKey}))
}

// Retrieve fetches one event.
func (e *Events) Retrieve(ctx context.Context, eventKey string) (*Event, error) {
	return decode[*Event](e.transport.Get(ctx, "/events/"+segment(eventKey), ""))
}

// Delete removes an event.
func (e *Events) Delete(ctx context.Context, eventKey string) error {
	return expectSuccess(e.transport.Delete(ctx, "/events/"+segment(eventKey)))
}

// StatusChangeOptions are the optional fields of a status change.
type StatusChangeOptions struct {
	HoldToken string
	OrderID   string
}

type changeObjectStatusRequest struct {
	Events    []string    `json:"events"`
	Objects   []ObjectRef `json:"objects"`
	Status    string      `json:"status"`
	HoldToken string      `json:"holdToken,omitempty"`
	OrderID   string      `json:"orderId,omitempty"`
}

// ChangeObjectStatus sets status on objects of eventKey.
func (e *Events) ChangeObjectStatus(ctx context.Context, eventKey string, objects []ObjectRef, status string, opts StatusChangeOptions) (*ChangeObjectStatusResult, error) {
	return e.ChangeObjectStatusInEvents(ctx, []string{eventKey}, objects, status, opts)
}

// ChangeObjectStatusInEvents sets status on the same objects in several events.
func (e *Events) ChangeObjectStatusInEvents(ctx context.Context, eventKeys []string, objects []ObjectRef, status string, opts StatusChangeOptions) (*ChangeObjectStatusResult, error) {
	body := changeObjectStatusRequest{
		Events:    eventKeys,
		Objects:   objects,
		Status:    status,
		HoldToken: opts.HoldToken,
		OrderID:   opts.OrderID,
	}
	return decode[*ChangeObjectStatusResult](e.transport.Do(ctx, http.MethodPost, "/events/groups/actions/change-object-status", "expand=objects", body))
}

// Book marks objects as booked.
func (e *Events) Book(ctx context.Context, eventKey string, objects []ObjectRef, opts StatusChangeOptions) (*ChangeObjectStatusResult, error) {
	return e.ChangeObjectStatus(ctx, eventKey, objects, StatusBooked, opts)
}

// Hold reserves objects with holdToken.
func (e *Events) Hold(ctx context.Context, eventKey string, objects []ObjectRef, holdToken string, opts StatusChangeOptions) (*ChangeObjectStatusResult, error) {
	opts.HoldToken = holdToken
	return e.ChangeObjectStatus(ctx, eventKey, objects, StatusReservedByToken, opts)
}

// Release frees objects.
func (e *Events) Release(ctx context.Context, eventKey string, objects []ObjectRef, opts StatusChangeOptions) (*ChangeObjectStatusResult, error) {
	return e.ChangeObjectStatus(ctx, eventKey, objects, StatusFree, opts)
}

// RetrieveObjectInfo returns the state of one object.
func (e *Events) RetrieveObjectInfo(ctx context.Context, eventKey, objectLabel string) (*ObjectInfo, error) {
	return decode[*ObjectInfo](e.transport.Get(ctx, "/events/"+segment(eventKey)+"/objects/"+segment(objectLabel), ""))
}

func (e *Events) statusChanges(eventKey string) *pagination.Lister[StatusChange] {
	return pagination.NewLister(e.fetcher, StatusChangesResource(eventKey), e.adapt)
}

// StatusChanges yields the whole status change log of eventKey, newest first
// unless params sorts it.
func (e *Events) StatusChanges(ctx context.Context, eventKey string, params pagination.Params) iter.Seq2[StatusChange, error] {
	return e.statusChanges(eventKey).All(ctx, params)
}

// StatusChangePages yields the status change log page by page.
func (e *Events) StatusChangePages(ctx context.Context, eventKey string, params pagination.Params) iter.Seq2[*pagination.Page[StatusChange], error] {
	return e.statusChanges(eventKey).Pages(ctx, params)
}

// ListStatusChangesFirstPage fetches the first page of the log.
func (e *Events) ListStatusChangesFirstPage(ctx context.Context, eventKey string, params pagination.Params) (*pagination.Page[StatusChange], error) {
	return e.statusChanges(eventKey).FirstPage(ctx, params)
}

// ListStatusChangesPageAfter fetches the page following cursor.
func (e *Events) ListStatusChangesPageAfter(ctx context.Context, eventKey string, cursor pagination.Cursor, params pagination.Params) (*pagination.Page[StatusChange], error) {
	return e.statusChanges(eventKey).PageAfter(ctx, cursor, params)
}

// ListStatusChangesPageBefore fetches the page preceding cursor.
func (e *Events) ListStatusChangesPageBefore(ctx context.Context, eventKey string, cursor pagination.Cursor, params pagination.Params) (*pagination.Page[StatusChange], error) {
	return e.statusChanges(eventKey).PageBefore(ctx, cursor, params)
}

// StatusChangesForEvents reads the logs of several events concurrently,
// keyed by event key.
func (e *Events) StatusChangesForEvents(ctx context.Context, eventKeys []string, params pagination.Params, cfg pagination.CollectConfig) (map[string][]StatusChange, error) {
	sources := make([]pagination.Source[StatusChange], 0, len(eventKeys))
	for _, key := range eventKeys {
		sources = append(sources, pagination.ListerSource(key, e.statusChanges(key), params))
	}
	return pagination.CollectAll(ctx, cfg, sources)
}
