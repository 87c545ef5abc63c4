package gcal

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"

	"voxcal/internal/agent"
)

func TestFormatEventListEmpty(t *testing.T) {
	if got := formatEventList(nil); got != "No upcoming events found." {
		t.Errorf("formatEventList(nil) = %q", got)
	}
}

func TestFormatEventList(t *testing.T) {
	items := []*calendar.Event{
		{Summary: "Standup", Start: &calendar.EventDateTime{DateTime: "2026-03-11T09:00:00+05:30"}},
		{Summary: "Holiday", Start: &calendar.EventDateTime{Date: "2026-03-12"}}, // all-day
	}
	want := "Upcoming events:\n\nStandup at 2026-03-11T09:00:00+05:30\nHoliday at 2026-03-12"
	if got := formatEventList(items); got != want {
		t.Errorf("formatEventList = %q, want %q", got, want)
	}
}

func TestBuildEvent(t *testing.T) {
	start := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	a := agent.Action{
		Kind:    agent.ActionCreate,
		Summary: "Meeting",
		Start:   start,
		End:     start.Add(time.Hour),
	}

	ev := buildEvent(a, "Asia/Kolkata")
	if ev.Summary != "Meeting" {
		t.Errorf("Summary = %q", ev.Summary)
	}
	if ev.Start.DateTime != "2026-03-11T15:00:00Z" {
		t.Errorf("Start.DateTime = %q", ev.Start.DateTime)
	}
	if ev.End.DateTime != "2026-03-11T16:00:00Z" {
		t.Errorf("End.DateTime = %q", ev.End.DateTime)
	}
	if ev.Start.TimeZone != "UTC" || ev.End.TimeZone != "UTC" {
		t.Errorf("TimeZone = %q/%q, want UTC", ev.Start.TimeZone, ev.End.TimeZone)
	}
}

func TestZoneName(t *testing.T) {
	tests := []struct {
		loc  *time.Location
		want string
	}{
		{time.UTC, "UTC"},
		{time.FixedZone("", 19800), "Asia/Kolkata"},       // unnamed offset
		{time.FixedZone("+05:30", 19800), "Asia/Kolkata"}, // bare offset label
	}
	for _, tt := range tests {
		got := zoneName(time.Date(2026, 3, 11, 15, 0, 0, 0, tt.loc), "Asia/Kolkata")
		if got != tt.want {
			t.Errorf("zoneName(%v) = %q, want %q", tt.loc, got, tt.want)
		}
	}

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	if got := zoneName(time.Now().In(loc), "Asia/Kolkata"); got != "Europe/Berlin" {
		t.Errorf("zoneName(Europe/Berlin) = %q", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	if err := saveToken(path, tok); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	got, err := loadToken(path)
	if err != nil {
		t.Fatalf("loadToken: %v", err)
	}
	if got.AccessToken != tok.AccessToken || got.RefreshToken != tok.RefreshToken {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.Valid() {
		t.Error("reloaded token should still be valid")
	}
}

func TestCredentialState(t *testing.T) {
	valid := &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}
	expiredRefreshable := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)}
	expiredDead := &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}

	tests := []struct {
		name string
		tok  *oauth2.Token
		err  error
		want credState
	}{
		{"valid", valid, nil, credValid},
		{"expired with refresh token", expiredRefreshable, nil, credRefresh},
		{"expired without refresh token", expiredDead, nil, credInteractive},
		{"missing artifact", nil, errNotExist{}, credInteractive},
	}
	for _, tt := range tests {
		if got := credentialState(tt.tok, tt.err); got != tt.want {
			t.Errorf("%s: credentialState = %v, want %v", tt.name, got, tt.want)
		}
	}
}

type errNotExist struct{}

func (errNotExist) Error() string { return "no such file" }
