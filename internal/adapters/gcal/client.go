// Package gcal talks to the Google Calendar API: OAuth code exchange and
// busy-event listing for the primary calendar.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"moija/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// googleTokenURL is oauth2's Google token endpoint; kept local to avoid the
// deprecated endpoints package.
const googleTokenURL = "https://oauth2.googleapis.com/token"

type eventDateTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type calendarEvent struct {
	Summary string        `json:"summary"`
	Status  string        `json:"status"`
	Start   eventDateTime `json:"start"`
	End     eventDateTime `json:"end"`
}

type eventsListResponse struct {
	Items []calendarEvent `json:"items"`
}

// Client fetches busy events and exchanges OAuth authorization codes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	oauth      *oauth2.Config
}

var (
	_ domain.CalendarFetcher = (*Client)(nil)
	_ domain.TokenExchanger  = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Calendar API base URL (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTokenURL overrides the OAuth token endpoint (tests).
func WithTokenURL(u string) Option {
	return func(c *Client) { c.oauth.Endpoint.TokenURL = u }
}

// NewClient returns a Google Calendar client. clientID/clientSecret/redirectURL
// configure the OAuth exchange; httpClient may be nil.
func NewClient(httpClient *http.Client, clientID, clientSecret, redirectURL string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/calendar.readonly"},
			Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exchange trades an authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token.AccessToken, nil
}

// FetchBusy lists the user's primary-calendar events between from and to and
// maps them to busy intervals. Timestamps are passed through raw; the
// conversion layer validates them. Cancelled events are dropped.
func (c *Client) FetchBusy(ctx context.Context, accessToken string, from, to time.Time) ([]domain.BusyEvent, error) {
	params := url.Values{}
	params.Set("timeMin", from.Format(time.RFC3339))
	params.Set("timeMax", to.Format(time.RFC3339))
	params.Set("maxResults", "100")
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	reqURL := fmt.Sprintf("%s/calendars/primary/events?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("calendar access denied (status %d): %w", resp.StatusCode, domain.ErrInvalidInput)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar api returned status %d", resp.StatusCode)
	}

	var list eventsListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	busy := make([]domain.BusyEvent, 0, len(list.Items))
	for _, ev := range list.Items {
		if ev.Status == "cancelled" {
			continue
		}
		start := rawTimestamp(ev.Start)
		end := rawTimestamp(ev.End)
		if start == "" || end == "" {
			continue
		}
		title := ev.Summary
		if title == "" {
			title = "일정"
		}
		busy = append(busy, domain.BusyEvent{Start: start, End: end, Title: title})
	}
	return busy, nil
}

// rawTimestamp normalizes the two Google event time shapes: dateTime for timed
// events, date for all-day events.
func rawTimestamp(dt eventDateTime) string {
	if dt.DateTime != "" {
		return dt.DateTime
	}
	if dt.Date != "" {
		return dt.Date + "T00:00:00"
	}
	return ""
}
