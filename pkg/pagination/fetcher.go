package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/logging"
	"github.com/rs/zerolog"
)

// Transport performs GET requests. *client.Client implements it.
// rawQuery is sent verbatim; non-2xx answers come back as responses.
type Transport interface {
	Get(ctx context.Context, path, rawQuery string) (*client.Response, error)
}

// Resource describes one paginated server collection.
type Resource struct {
	// Name labels logs and metrics, e.g. "archived_charts".
	Name string

	// Path is the collection endpoint, e.g. "/charts/archived".
	Path string

	// SortValues maps the supported sort modes onto the server's sort key.
	// SortNone never needs an entry.
	SortValues map[SortMode]string
}

// Fetcher retrieves single pages. It holds no traversal state and is safe
// for concurrent use.
type Fetcher struct {
	transport Transport
	logger    zerolog.Logger
}

// NewFetcher creates a fetcher on top of transport.
func NewFetcher(transport Transport) *Fetcher {
	return &Fetcher{
		transport: transport,
		logger:    logging.NewLogger("pagination"),
	}
}

// rawPage mirrors the wire shape. Items is a pointer so a missing key can be
// told apart from an empty list.
type rawPage struct {
	Items                  *[]json.RawMessage `json:"items"`
	NextPageStartsAfter    Cursor             `json:"nextPageStartsAfter"`
	PreviousPageEndsBefore Cursor             `json:"previousPageEndsBefore"`
}

// FetchPage performs exactly one request for the page of res in direction dir
// relative to cursor. Parameters are validated before any I/O.
//
// Errors: ErrInvalidParameters for caller mistakes, *client.RequestError for
// non-2xx answers, *MalformedResponseError for bodies without the page shape,
// and transport errors as returned by the Transport.
func (f *Fetcher) FetchPage(ctx context.Context, res Resource, dir Direction, cursor Cursor, params Params) (*Page[json.RawMessage], error) {
	query, err := buildQuery(res, dir, cursor, params)
	if err != nil {
		seatsPageFetchesTotal.WithLabelValues(res.Name, dir.String(), outcomeInvalid).Inc()
		return nil, err
	}

	start := time.Now()
	resp, err := f.transport.Get(ctx, res.Path, query)
	seatsPageFetchDuration.WithLabelValues(res.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		seatsPageFetchesTotal.WithLabelValues(res.Name, dir.String(), outcomeError).Inc()
		return nil, fmt.Errorf("fetch %s page: %w", res.Name, err)
	}
	if err := resp.Err(); err != nil {
		seatsPageFetchesTotal.WithLabelValues(res.Name, dir.String(), outcomeStatus).Inc()
		return nil, fmt.Errorf("fetch %s page: %w", res.Name, err)
	}

	page, err := decodePage(res.Name, resp.Body)
	if err != nil {
		seatsPageFetchesTotal.WithLabelValues(res.Name, dir.String(), outcomeMalformed).Inc()
		return nil, err
	}

	if len(page.Items) == 0 && page.NextPageStartsAfter != "" {
		f.logger.Warn().
			Str("resource", res.Name).
			Str("cursor", string(page.NextPageStartsAfter)).
			Msg("Empty page carried a forward cursor - treating as last page")
		page.NextPageStartsAfter = ""
	}

	seatsPageFetchesTotal.WithLabelValues(res.Name, dir.String(), outcomeOK).Inc()
	f.logger.Debug().
		Str("resource", res.Name).
		Str("direction", dir.String()).
		Str("cursor", string(cursor)).
		Int("items", len(page.Items)).
		Dur("duration", time.Since(start)).
		Msg("Fetched page")

	return page, nil
}

func decodePage(resource string, body []byte) (*Page[json.RawMessage], error) {
	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &MalformedResponseError{Resource: resource, Details: "decode body", Err: err}
	}
	if raw.Items == nil {
		return nil, &MalformedResponseError{Resource: resource, Details: "missing items"}
	}
	return &Page[json.RawMessage]{
		Items:                  *raw.Items,
		NextPageStartsAfter:    raw.NextPageStartsAfter,
		PreviousPageEndsBefore: raw.PreviousPageEndsBefore,
	}, nil
}

// buildQuery renders the query string in a fixed order:
// after or before, pageSize, sort, filter.
func buildQuery(res Resource, dir Direction, cursor Cursor, params Params) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	var parts []string
	switch dir {
	case First:
	case After:
		if cursor == "" {
			return "", fmt.Errorf("%w: after requires a cursor", ErrInvalidParameters)
		}
		parts = append(parts, "after="+escape(string(cursor)))
	case Before:
		if cursor == "" {
			return "", fmt.Errorf("%w: before requires a cursor", ErrInvalidParameters)
		}
		parts = append(parts, "before="+escape(string(cursor)))
	default:
		return "", fmt.Errorf("%w: unknown direction %d", ErrInvalidParameters, int(dir))
	}

	if size, ok := params.PageSize(); ok {
		parts = append(parts, "pageSize="+strconv.Itoa(size))
	}

	if mode := params.Sort(); mode != SortNone {
		value, ok := res.SortValues[mode]
		if !ok {
			return "", fmt.Errorf("%w: %s cannot be sorted by %s", ErrInvalidParameters, res.Name, mode)
		}
		parts = append(parts, "sort="+escape(value))
	}

	if filter, ok := params.Filter(); ok {
		parts = append(parts, "filter="+escape(filter))
	}

	return strings.Join(parts, "&"), nil
}

// escape percent-encodes everything outside the unreserved set, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
