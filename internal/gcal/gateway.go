// Package gcal owns the authenticated session with Google Calendar and
// exposes the two operations the assistant issues: create an event, list
// upcoming events. Both return user-facing strings; provider errors are
// logged, never shown raw.
package gcal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"voxcal/internal/agent"
)

const (
	clientSecretFile = "credentials.json"
	tokenFile        = "token.json"
	calendarID       = "primary"
)

// Fixed user-facing strings. A failed operation is never retried; the user
// reissues the command.
const (
	msgCreateFailed = "Failed to create event. Please try again."
	msgFetchFailed  = "Failed to fetch events. Please try again."
	msgNoEvents     = "No upcoming events found."
)

type Config struct {
	CredentialsDir string // holds credentials.json and token.json; default "credentials"
	DefaultZone    string // fallback IANA zone for events; default "Asia/Kolkata"
	Logger         *slog.Logger

	// Input/Output carry the interactive authorization dialog when no
	// usable token is on disk.
	Input  io.Reader
	Output io.Writer
}

// Gateway holds the one live credential of the process. It is acquired
// once in New (loaded, refreshed, or obtained interactively), persisted
// back to disk, and shared by every operation afterwards.
type Gateway struct {
	service *calendar.Service
	logger  *slog.Logger
	zone    string
	now     func() time.Time
}

func New(ctx context.Context, cfg Config) (*Gateway, error) {
	dir := cfg.CredentialsDir
	if dir == "" {
		dir = "credentials"
	}
	zone := cfg.DefaultZone
	if zone == "" {
		zone = "Asia/Kolkata"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secret, err := os.ReadFile(filepath.Join(dir, clientSecretFile))
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	// Event read/write only, not full calendar management.
	oc, err := google.ConfigFromJSON(secret, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	tokenPath := filepath.Join(dir, tokenFile)
	tok, err := loadToken(tokenPath)
	switch credentialState(tok, err) {
	case credValid:
	case credRefresh:
		tok, err = oc.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, fmt.Errorf("refresh token: %w", err)
		}
	default:
		tok, err = authorize(ctx, oc, cfg.Input, cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("authorize: %w", err)
		}
	}
	if err := saveToken(tokenPath, tok); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(oc.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &Gateway{service: service, logger: logger, zone: zone, now: time.Now}, nil
}

// CreateEvent inserts a one-off event built from a Create action and
// returns the confirmation string.
func (g *Gateway) CreateEvent(ctx context.Context, a agent.Action) string {
	ev := buildEvent(a, g.zone)
	created, err := g.service.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		g.logger.Error("create event failed", "summary", a.Summary, "err", err)
		return msgCreateFailed
	}
	g.logger.Info("event created", "id", created.Id, "summary", created.Summary)
	return "Event created successfully: " + created.Summary
}

// ListUpcoming queries events starting at or after now (UTC), ascending,
// recurring events expanded to single occurrences, capped at maxResults.
func (g *Gateway) ListUpcoming(ctx context.Context, maxResults int64) string {
	if maxResults <= 0 {
		maxResults = agent.DefaultFetchLimit
	}
	res, err := g.service.Events.List(calendarID).
		TimeMin(g.now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		g.logger.Error("fetch events failed", "err", err)
		return msgFetchFailed
	}
	return formatEventList(res.Items)
}

// buildEvent maps an Action onto the provider's event shape. The provider
// requires an explicit per-side timezone; fallbackZone covers moments whose
// own zone is unnamed.
func buildEvent(a agent.Action, fallbackZone string) *calendar.Event {
	return &calendar.Event{
		Summary:     a.Summary,
		Description: a.Description,
		Start: &calendar.EventDateTime{
			DateTime: a.Start.Format(time.RFC3339),
			TimeZone: zoneName(a.Start, fallbackZone),
		},
		End: &calendar.EventDateTime{
			DateTime: a.End.Format(time.RFC3339),
			TimeZone: zoneName(a.End, fallbackZone),
		},
	}
}

// zoneName returns t's IANA zone name, or fallback when the location is
// local, unnamed, or a bare offset.
func zoneName(t time.Time, fallback string) string {
	name := t.Location().String()
	if name == "UTC" || strings.Contains(name, "/") {
		return name
	}
	return fallback
}

func formatEventList(items []*calendar.Event) string {
	if len(items) == 0 {
		return msgNoEvents
	}
	var b strings.Builder
	b.WriteString("Upcoming events:\n")
	for _, it := range items {
		start := ""
		if it.Start != nil {
			start = it.Start.DateTime
			if start == "" {
				start = it.Start.Date // all-day events carry a date only
			}
		}
		fmt.Fprintf(&b, "\n%s at %s", it.Summary, start)
	}
	return b.String()
}
