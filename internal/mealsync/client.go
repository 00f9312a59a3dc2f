package mealsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealcal/internal/plan"
)

// API is the server's meal CRUD surface
type API interface {
	AddMeal(ctx context.Context, payload MealPayload) (string, error)
	UpdateMeal(ctx context.Context, id string, payload MealPayload) error
	DeleteMeal(ctx context.Context, id string) error
	ListMeals(ctx context.Context) ([]MealEntry, error)
}

// MealPayload is the JSON body of create and update requests
type MealPayload struct {
	Date     string `json:"date"`
	Meal     string `json:"meal"`
	MealType string `json:"meal_type"`
}

// writeResponse is the reply to every write endpoint
type writeResponse struct {
	Success bool   `json:"success"`
	MealID  string `json:"meal_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

const defaultClientTimeout = 15 * time.Second

// Client talks to the meal endpoints over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sends token as a bearer credential on every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new Client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddMeal creates a meal and returns the id the server assigned
func (c *Client) AddMeal(ctx context.Context, payload MealPayload) (string, error) {
	const op = "add meal"
	resp, err := c.write(ctx, op, "/add_meal", &payload)
	if err != nil {
		return "", err
	}
	if resp.MealID == "" {
		return "", &TransportFailure{Op: op, Err: errors.New("response has no meal_id")}
	}
	return resp.MealID, nil
}

func (c *Client) UpdateMeal(ctx context.Context, id string, payload MealPayload) error {
	_, err := c.write(ctx, "update meal", "/update_meal/"+url.PathEscape(id), &payload)
	return err
}

func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	_, err := c.write(ctx, "delete meal", "/delete_meal/"+url.PathEscape(id), nil)
	return err
}

// ListMeals fetches the authoritative meal list
func (c *Client) ListMeals(ctx context.Context) ([]MealEntry, error) {
	const op = "list meals"
	req, err := c.newRequest(ctx, http.MethodGet, "/meals", nil)
	if err != nil {
		return nil, &TransportFailure{Op: op, Err: err}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportFailure{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportFailure{Op: op, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, rejection(op, res.StatusCode, body)
	}

	var events []plan.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, &TransportFailure{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	entries := make([]MealEntry, 0, len(events))
	for _, ev := range events {
		entry, err := EntryFromEvent(ev)
		if err != nil {
			return nil, &TransportFailure{Op: op, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Export downloads the iCalendar rendering of the meal list into w
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	const op = "export meals"
	req, err := c.newRequest(ctx, http.MethodGet, "/meals.ics", nil)
	if err != nil {
		return &TransportFailure{Op: op, Err: err}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportFailure{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return rejection(op, res.StatusCode, body)
	}
	if _, err := io.Copy(w, res.Body); err != nil {
		return &TransportFailure{Op: op, Err: err}
	}
	return nil
}

// write posts payload and decodes the {success, meal_id, error} reply.
// A nil payload sends an empty body.
func (c *Client) write(ctx context.Context, op, path string, payload *MealPayload) (writeResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return writeResponse{}, &TransportFailure{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return writeResponse{}, &TransportFailure{Op: op, Err: err}
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return writeResponse{}, &TransportFailure{Op: op, Err: err}
	}
	defer res.Body.Close()

	var resp writeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return writeResponse{}, &TransportFailure{
			Op:  op,
			Err: fmt.Errorf("decode response (status %d): %w", res.StatusCode, err),
		}
	}
	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = http.StatusText(res.StatusCode)
		}
		return writeResponse{}, &ServerRejection{Op: op, Status: res.StatusCode, Message: message}
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// rejection turns a non-200 reply into a ServerRejection when the body
// carries an error message, otherwise into a TransportFailure
func rejection(op string, status int, body []byte) error {
	var resp writeResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &ServerRejection{Op: op, Status: status, Message: resp.Error}
	}
	return &TransportFailure{Op: op, Err: fmt.Errorf("unexpected status %d", status)}
}

/*
MealCal is the meal planning calendar: a JSON API for planned meals and the client that keeps a rendered calendar in sync with it.
MealCal Copyright (C) 2025 The MealCal Authors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
