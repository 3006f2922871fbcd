// Package seats exposes the seating API resources on top of the transport in
// pkg/client and the pagination engine in pkg/pagination.
package seats

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Sternrassler/seats-client/pkg/client"
	"github.com/Sternrassler/seats-client/pkg/pagination"
)

// Client groups the resource services.
type Client struct {
	transport *client.Client
	fetcher   *pagination.Fetcher

	Events       *Events
	Charts       *Charts
	Subaccounts  *Subaccounts
	Workspaces   *Workspaces
	HoldTokens   *HoldTokens
	ChartReports *ChartReports
}

// New builds the transport and every service from cfg.
func New(cfg client.Config) (*Client, error) {
	transport, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}
	return NewWithTransport(transport), nil
}

// NewWithTransport builds the services on an existing transport.
func NewWithTransport(transport *client.Client) *Client {
	fetcher := pagination.NewFetcher(transport)
	return &Client{
		transport:    transport,
		fetcher:      fetcher,
		Events:       newEvents(transport, fetcher),
		Charts:       newCharts(transport, fetcher),
		Subaccounts:  newSubaccounts(transport, fetcher),
		Workspaces:   newWorkspaces(transport, fetcher),
		HoldTokens:   &HoldTokens{transport: transport},
		ChartReports: &ChartReports{transport: transport},
	}
}

// SetRequestListener registers l on the transport. Every page fetch and
// every action notifies it exactly once.
func (c *Client) SetRequestListener(l client.RequestListener) {
	c.transport.SetRequestListener(l)
}

// Transport returns the underlying HTTP client.
func (c *Client) Transport() *client.Client {
	return c.transport
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.transport.Close()
}

// decode turns a transport result into a record.
func decode[T any](resp *client.Response, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := resp.Err(); err != nil {
		return v, err
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

// expectSuccess discards the body of an action that answers 2xx.
func expectSuccess(resp *client.Response, err error) error {
	if err != nil {
		return err
	}
	return resp.Err()
}

// segment escapes one path segment, so "tag1/:\"-<>" stays a single segment.
func segment(s string) string {
	return url.PathEscape(s)
}
