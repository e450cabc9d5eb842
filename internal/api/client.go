// Package api implements fleet.Service over the scheduling backend's JSON
// HTTP API. Conflict responses (HTTP 409) are decoded into
// *fleet.ConflictError here, once, so nothing upstream ever inspects payload
// shapes.
package api

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

	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote scheduling backend.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	log     zerolog.Logger
}

// New creates a client for the given base URL. token may be empty for
// backends without authentication.
func New(baseURL, token string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api base URL is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// FetchSchedule returns vehicles plus bookings intersecting [from, to].
// Bookings whose date range does not decode are logged and skipped; one bad
// record must not take down the whole window.
func (c *Client) FetchSchedule(ctx context.Context, from, to time.Time) (*fleet.Schedule, error) {
	q := url.Values{}
	q.Set("from", dateutil.DayKey(from))
	q.Set("to", dateutil.DayKey(to))

	var payload schedulePayload
	if err := c.do(ctx, http.MethodGet, "/api/schedule?"+q.Encode(), nil, &payload); err != nil {
		return nil, err
	}

	out := &fleet.Schedule{Vehicles: make([]fleet.Vehicle, 0, len(payload.Vehicles))}
	for _, v := range payload.Vehicles {
		out.Vehicles = append(out.Vehicles, v.toVehicle())
	}
	for _, b := range payload.Bookings {
		booking, err := b.toBooking()
		if err != nil {
			c.log.Warn().Int64("booking_id", b.ID).Err(err).Msg("skipping booking with undecodable dates")
			continue
		}
		out.Bookings = append(out.Bookings, booking)
	}
	return out, nil
}

// FetchBooking retrieves the full current booking record.
func (c *Client) FetchBooking(ctx context.Context, id int64) (*fleet.Booking, error) {
	var payload bookingPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookings/%d", id), nil, &payload); err != nil {
		return nil, err
	}
	b, err := payload.toBooking()
	if err != nil {
		return nil, fmt.Errorf("decoding booking %d: %w", id, err)
	}
	return &b, nil
}

// UpdateBooking resubmits a full booking record.
func (c *Client) UpdateBooking(ctx context.Context, b *fleet.Booking) (*fleet.Booking, error) {
	var payload bookingPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d", b.ID), fromBooking(b), &payload); err != nil {
		return nil, err
	}
	updated, err := payload.toBooking()
	if err != nil {
		return nil, fmt.Errorf("decoding updated booking %d: %w", b.ID, err)
	}
	return &updated, nil
}

// AssignVehicle adds a vehicle to the booking's assigned set.
func (c *Client) AssignVehicle(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	return c.assignment(ctx, http.MethodPost, bookingID, vehicleID)
}

// UnassignVehicle removes a vehicle from the booking's assigned set.
func (c *Client) UnassignVehicle(ctx context.Context, bookingID, vehicleID int64) (*fleet.Booking, error) {
	return c.assignment(ctx, http.MethodDelete, bookingID, vehicleID)
}

func (c *Client) assignment(ctx context.Context, method string, bookingID, vehicleID int64) (*fleet.Booking, error) {
	var payload bookingPayload
	path := fmt.Sprintf("/api/bookings/%d/vehicles/%d", bookingID, vehicleID)
	if err := c.do(ctx, method, path, nil, &payload); err != nil {
		return nil, err
	}
	b, err := payload.toBooking()
	if err != nil {
		return nil, fmt.Errorf("decoding booking %d: %w", bookingID, err)
	}
	return &b, nil
}

// CreateVehicle registers a new vehicle.
func (c *Client) CreateVehicle(ctx context.Context, registration, name string) (*fleet.Vehicle, error) {
	if strings.TrimSpace(registration) == "" {
		return nil, fleet.ErrEmptyRegistration
	}
	body := map[string]string{"registration": registration}
	if name != "" {
		body["name"] = name
	}
	var payload vehiclePayload
	if err := c.do(ctx, http.MethodPost, "/api/vehicles", body, &payload); err != nil {
		return nil, err
	}
	v := payload.toVehicle()
	return &v, nil
}

// ListVehicles returns the fleet.
func (c *Client) ListVehicles(ctx context.Context, includeInactive bool) ([]fleet.Vehicle, error) {
	path := "/api/vehicles"
	if includeInactive {
		path += "?includeInactive=true"
	}
	var payload []vehiclePayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	out := make([]fleet.Vehicle, 0, len(payload))
	for _, v := range payload {
		out = append(out, v.toVehicle())
	}
	return out, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// do performs one JSON round-trip. Remote failures are never retried here;
// the caller decides what a failed mutation means.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		return decodeConflict(resp.Body)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeFailure(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}

func decodeFailure(method, path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s %s: %s (status %d)", method, path, payload.Message, resp.StatusCode)
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%s %s: %s (status %d)", method, path, msg, resp.StatusCode)
}
