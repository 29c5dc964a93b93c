// Package client talks to the frontdesk HTTP API and keeps a local,
// optimistically updated copy of the floor state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"frontdesk/entity"
	"frontdesk/services"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("frontdesk api: %d %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Token string          `json:"token"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	env := &envelope{}
	if res.StatusCode == http.StatusNoContent {
		return env, nil
	}
	if err := json.NewDecoder(res.Body).Decode(env); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if res.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return nil, &APIError{Status: res.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return env, nil
}

// Login stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", services.LoginIn{Email: email, Password: password}, nil)
	if err != nil {
		return err
	}
	c.Token = env.Token
	return nil
}

func (c *Client) ListTables(ctx context.Context) ([]entity.Table, error) {
	var out []entity.Table
	_, err := c.do(ctx, http.MethodGet, "/tables", nil, &out)
	return out, err
}

func (c *Client) CreateTable(ctx context.Context, in services.TableIn) (*entity.Table, error) {
	var out entity.Table
	_, err := c.do(ctx, http.MethodPost, "/tables", in, &out)
	return &out, err
}

func (c *Client) UpdateTable(ctx context.Context, id string, p services.TablePatch) (*entity.Table, error) {
	var out entity.Table
	_, err := c.do(ctx, http.MethodPatch, "/tables/"+url.PathEscape(id), p, &out)
	return &out, err
}

func (c *Client) ClickTable(ctx context.Context, id string) (*services.ClickResult, error) {
	var out services.ClickResult
	_, err := c.do(ctx, http.MethodPost, "/tables/"+url.PathEscape(id)+"/click", nil, &out)
	return &out, err
}

func (c *Client) ClearTable(ctx context.Context, id string) (*entity.Table, error) {
	var out entity.Table
	_, err := c.do(ctx, http.MethodPost, "/tables/"+url.PathEscape(id)+"/clear", nil, &out)
	return &out, err
}

func (c *Client) ListWaitlist(ctx context.Context) ([]entity.WaitingGuest, error) {
	var out []entity.WaitingGuest
	_, err := c.do(ctx, http.MethodGet, "/waitlist", nil, &out)
	return out, err
}

func (c *Client) AddWaiting(ctx context.Context, in services.WaitingGuestIn) (*entity.WaitingGuest, error) {
	var out entity.WaitingGuest
	_, err := c.do(ctx, http.MethodPost, "/waitlist", in, &out)
	return &out, err
}

func (c *Client) UpdateWaiting(ctx context.Context, id string, p services.WaitingGuestPatch) (*entity.WaitingGuest, error) {
	var out entity.WaitingGuest
	_, err := c.do(ctx, http.MethodPatch, "/waitlist/"+url.PathEscape(id), p, &out)
	return &out, err
}

func (c *Client) DeleteWaiting(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/waitlist/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ListGuests(ctx context.Context) ([]entity.Guest, error) {
	var out []entity.Guest
	_, err := c.do(ctx, http.MethodGet, "/guests", nil, &out)
	return out, err
}

func (c *Client) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	var out []entity.Reservation
	_, err := c.do(ctx, http.MethodGet, "/reservations", nil, &out)
	return out, err
}
