package agent

import (
	"strings"
	"testing"
	"time"
)

var moment = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		reply string
		want  ActionKind
	}{
		{"Sure, I will CREATE EVENT for your meeting.", ActionCreate},
		{"Okay — create event at the requested time", ActionCreate},
		{"Let me show events for the coming days.", ActionFetch},
		{"SHOW EVENTS", ActionFetch},
		{"I will create event and then show events", ActionCreate}, // create wins
		{"I cannot help with that.", ActionUnrecognized},
		{"", ActionUnrecognized},
	}
	for _, tt := range tests {
		if got := Classify(tt.reply, moment); got.Kind != tt.want {
			t.Errorf("Classify(%q).Kind = %v, want %v", tt.reply, got.Kind, tt.want)
		}
	}
}

func TestClassifySummary(t *testing.T) {
	tests := []struct {
		reply string
		want  string
	}{
		{"create event for your meeting", "Meeting"},
		{"create event: doctor appointment", "Appointment"},
		{"create event for the meeting about the appointment", "Meeting"}, // first rule wins
		{"create event", ""},
	}
	for _, tt := range tests {
		if got := Classify(tt.reply, moment); got.Summary != tt.want {
			t.Errorf("Classify(%q).Summary = %q, want %q", tt.reply, got.Summary, tt.want)
		}
	}
}

func TestClassifyCreateWindow(t *testing.T) {
	a := Classify("create event for a meeting", moment)
	if !a.Start.Equal(moment) {
		t.Errorf("Start = %v, want %v", a.Start, moment)
	}
	if !a.End.Equal(moment.Add(time.Hour)) {
		t.Errorf("End = %v, want %v", a.End, moment.Add(time.Hour))
	}
}

func TestClassifyFetchLimit(t *testing.T) {
	a := Classify("show events", moment)
	if a.MaxResults != DefaultFetchLimit {
		t.Errorf("MaxResults = %d, want %d", a.MaxResults, DefaultFetchLimit)
	}
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt("I have a meeting tomorrow at 3 PM", moment)
	if !strings.Contains(got, "Command: I have a meeting tomorrow at 3 PM") {
		t.Errorf("prompt missing command: %q", got)
	}
	if !strings.Contains(got, "Parsed Date: 2026-03-11T15:00:00Z") {
		t.Errorf("prompt missing parsed date: %q", got)
	}
}
