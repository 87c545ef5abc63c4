// Package assistant drives the interactive session: one command per
// iteration through transcription, date extraction, interpretation, and
// the calendar gateway, until the user types the exit sentinel.
package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"voxcal/internal/agent"
	"voxcal/internal/transcribe"
)

// Collaborator contracts, defined here on the consumer side so the loop
// can be exercised with fakes.

type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (transcribe.Transcript, error)
	TranscribePCM(ctx context.Context, pcm []float32) (transcribe.Transcript, error)
}

type MomentExtractor interface {
	Extract(text string, now time.Time) (time.Time, bool)
}

type Interpreter interface {
	Interpret(ctx context.Context, command string, moment time.Time) (agent.Action, error)
}

type Calendar interface {
	CreateEvent(ctx context.Context, a agent.Action) string
	ListUpcoming(ctx context.Context, maxResults int64) string
}

type Speaker interface {
	Speak(text, lang string) error
}

// SpeakerFunc adapts a plain function to Speaker.
type SpeakerFunc func(text, lang string) error

func (f SpeakerFunc) Speak(text, lang string) error { return f(text, lang) }

type Capturer interface {
	Capture(maxDur time.Duration) ([]float32, error)
}

// Responses the loop produces itself.
const (
	msgNoTranscript = "Sorry, I couldn't understand that."
	msgNoMoment     = "Could not understand the date/time. Please clarify."
	msgUnrecognized = "Action not recognized"
)

// Input sentinels, matched case-insensitively.
const (
	sentinelExit   = "exit"
	sentinelRecord = "record"
)

// Assistant owns every collaborator of one session. It is constructed once
// at startup and passed around explicitly; there is no package state.
type Assistant struct {
	Transcriber Transcriber
	Extractor   MomentExtractor
	Interpreter Interpreter
	Calendar    Calendar
	Speaker     Speaker
	Capturer    Capturer // optional; enables the "record" command

	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
	Now    func() time.Time // defaults to time.Now
}

// Run loops until the exit sentinel or the input source ends. A failed
// iteration is logged and displayed, never fatal.
func (a *Assistant) Run(ctx context.Context) error {
	now := a.Now
	if now == nil {
		now = time.Now
	}

	fmt.Fprintln(a.Out, "Welcome to Voice Calendar Assistant!")
	fmt.Fprintln(a.Out, "Say your command or type 'exit' to quit.")

	sc := bufio.NewScanner(a.In)
	for {
		fmt.Fprintln(a.Out, "\nListening...")
		fmt.Fprint(a.Out, "Enter path to audio file, 'record', or 'exit': ")

		if !sc.Scan() {
			return sc.Err()
		}
		input := strings.TrimSpace(sc.Text())
		if strings.EqualFold(input, sentinelExit) {
			return nil
		}
		if input == "" {
			continue
		}

		a.runCycle(ctx, input, now())
	}
}

// runCycle carries one command through the whole pipeline. Panics are
// contained here so one bad iteration cannot take the session down.
func (a *Assistant) runCycle(ctx context.Context, input string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("cycle failed", "panic", r)
			fmt.Fprintf(a.Out, "An error occurred: %v\n", r)
		}
	}()

	tr, err := a.transcribe(ctx, input)
	if err != nil {
		a.Logger.Error("transcription failed", "input", input, "err", err)
		fmt.Fprintln(a.Out, msgNoTranscript)
		return
	}
	a.Logger.Info("transcription", "text", tr.Text, "language", tr.Language)

	response := a.respond(ctx, tr, now)
	fmt.Fprintf(a.Out, "\n%s\n", response)

	if a.Speaker != nil {
		if err := a.Speaker.Speak(response, tr.Language); err != nil {
			a.Logger.Error("speech synthesis failed", "err", err)
		}
	}
}

func (a *Assistant) transcribe(ctx context.Context, input string) (transcribe.Transcript, error) {
	if strings.EqualFold(input, sentinelRecord) {
		if a.Capturer == nil {
			return transcribe.Transcript{}, errors.New("no capture device configured")
		}
		pcm, err := a.Capturer.Capture(0)
		if err != nil {
			return transcribe.Transcript{}, err
		}
		return a.Transcriber.TranscribePCM(ctx, pcm)
	}
	return a.Transcriber.TranscribeFile(ctx, input)
}

// respond resolves one transcript to exactly one response string.
func (a *Assistant) respond(ctx context.Context, tr transcribe.Transcript, now time.Time) string {
	moment, ok := a.Extractor.Extract(tr.Text, now)
	if !ok {
		// No moment, no interpretation: ask for clarification instead of
		// fabricating a start time.
		return msgNoMoment
	}

	action, err := a.Interpreter.Interpret(ctx, tr.Text, moment)
	if err != nil {
		a.Logger.Error("interpretation failed", "err", err)
		return fmt.Sprintf("An error occurred: %v", err)
	}

	switch action.Kind {
	case agent.ActionCreate:
		return a.Calendar.CreateEvent(ctx, action)
	case agent.ActionFetch:
		return a.Calendar.ListUpcoming(ctx, action.MaxResults)
	default:
		return msgUnrecognized
	}
}
