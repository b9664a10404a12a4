// Package client is the HTTP client of the register service, bound to a
// session manager so the login token survives between invocations.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/docreg/internal/models"
	"github.com/patric-chuzhbe/docreg/internal/session"
)

// ErrInvalidCredentials mirrors the server's login rejection.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthenticated is returned when a call requires a session
// and none is held.
var ErrUnauthenticated = errors.New("not logged in")

// Client calls the register service API.
type Client struct {
	http     *resty.Client
	sessions *session.Manager
}

// New creates a Client for the service at baseURL using the given
// session manager.
func New(baseURL string, sessions *session.Manager) *Client {
	return &Client{
		http:     resty.New().SetBaseURL(baseURL),
		sessions: sessions,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	request := c.http.R().SetContext(ctx)
	if usr, ok := c.sessions.Current(); ok && usr.Token != "" {
		request.SetHeader("Authorization", "Bearer "+usr.Token)
	}

	return request
}

func checkStatus(response *resty.Response) error {
	if response.IsSuccess() {
		return nil
	}
	if response.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthenticated
	}

	return fmt.Errorf("server responded %s: %s", response.Status(), response.String())
}

// Login authenticates the username and stores the resulting session.
func (c *Client) Login(ctx context.Context, username string) (*models.User, error) {
	var usr models.User
	response, err := c.request(ctx).
		SetBody(models.LoginRequest{Username: username}).
		SetResult(&usr).
		Post("/api/login")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	if err := c.sessions.Set(&usr); err != nil {
		return nil, err
	}

	return &usr, nil
}

// Logout drops the session on both sides.
func (c *Client) Logout(ctx context.Context) error {
	if !c.sessions.IsAuthenticated() {
		return ErrUnauthenticated
	}

	response, err := c.request(ctx).Post("/api/logout")
	if err != nil {
		return err
	}
	if err := checkStatus(response); err != nil {
		return err
	}

	return c.sessions.Clear()
}

// Whoami asks the server which user the held session belongs to.
func (c *Client) Whoami(ctx context.Context) (*models.User, error) {
	var usr models.User
	response, err := c.request(ctx).SetResult(&usr).Get("/api/session")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return &usr, nil
}

// ListMasters fetches one master collection as raw records.
func (c *Client) ListMasters(ctx context.Context, kind models.MasterKind) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	response, err := c.request(ctx).
		SetResult(&records).
		Get("/api/masters/" + string(kind))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return records, nil
}

// CreateMaster creates a record in one master collection.
func (c *Client) CreateMaster(ctx context.Context, kind models.MasterKind, record interface{}) (map[string]interface{}, error) {
	created := map[string]interface{}{}
	response, err := c.request(ctx).
		SetBody(record).
		SetResult(&created).
		Post("/api/masters/" + string(kind))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateMaster merges a partial update into one master record.
func (c *Client) UpdateMaster(ctx context.Context, kind models.MasterKind, id string, patch interface{}) (map[string]interface{}, error) {
	updated := map[string]interface{}{}
	response, err := c.request(ctx).
		SetBody(patch).
		SetResult(&updated).
		Patch("/api/masters/" + string(kind) + "/" + id)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteMaster removes one master record.
func (c *Client) DeleteMaster(ctx context.Context, kind models.MasterKind, id string) error {
	response, err := c.request(ctx).Delete("/api/masters/" + string(kind) + "/" + id)
	if err != nil {
		return err
	}

	return checkStatus(response)
}

// CreateInwardEntry logs a received document.
func (c *Client) CreateInwardEntry(ctx context.Context, entry models.InwardEntry) (models.CreateEntryResponse, error) {
	var created models.CreateEntryResponse
	response, err := c.request(ctx).
		SetBody(entry).
		SetResult(&created).
		Post("/api/entries/inward")
	if err != nil {
		return models.CreateEntryResponse{}, err
	}
	if err := checkStatus(response); err != nil {
		return models.CreateEntryResponse{}, err
	}

	return created, nil
}

// CreateOutwardEntry logs a dispatched document.
func (c *Client) CreateOutwardEntry(ctx context.Context, entry models.OutwardEntry) (models.CreateEntryResponse, error) {
	var created models.CreateEntryResponse
	response, err := c.request(ctx).
		SetBody(entry).
		SetResult(&created).
		Post("/api/entries/outward")
	if err != nil {
		return models.CreateEntryResponse{}, err
	}
	if err := checkStatus(response); err != nil {
		return models.CreateEntryResponse{}, err
	}

	return created, nil
}

func filterParams(filter models.EntryFilter) map[string]string {
	params := map[string]string{}
	if filter.Type != "" {
		params["type"] = string(filter.Type)
	}
	if filter.DateFrom != "" {
		params["dateFrom"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		params["dateTo"] = filter.DateTo
	}
	if filter.Mode != "" {
		params["mode"] = filter.Mode
	}
	if filter.Courier != "" {
		params["courier"] = filter.Courier
	}
	if filter.Status != "" {
		params["status"] = string(filter.Status)
	}
	if filter.Query != "" {
		params["q"] = filter.Query
	}

	return params
}

// ListInwardRegister fetches the inward register with filters applied.
func (c *Client) ListInwardRegister(ctx context.Context, filter models.EntryFilter) ([]models.InwardEntry, error) {
	var entries []models.InwardEntry
	response, err := c.request(ctx).
		SetQueryParams(filterParams(filter)).
		SetResult(&entries).
		Get("/api/registers/inward")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListOutwardRegister fetches the outward register with filters applied.
func (c *Client) ListOutwardRegister(ctx context.Context, filter models.EntryFilter) ([]models.OutwardEntry, error) {
	var entries []models.OutwardEntry
	response, err := c.request(ctx).
		SetQueryParams(filterParams(filter)).
		SetResult(&entries).
		Get("/api/registers/outward")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return entries, nil
}

// Search queries both registers for flat summaries.
func (c *Client) Search(ctx context.Context, filter models.EntryFilter) ([]models.EntrySummary, error) {
	var summaries []models.EntrySummary
	response, err := c.request(ctx).
		SetQueryParams(filterParams(filter)).
		SetResult(&summaries).
		Get("/api/search")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(response); err != nil {
		return nil, err
	}

	return summaries, nil
}
