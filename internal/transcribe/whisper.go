package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Transcript is one recognized utterance.
type Transcript struct {
	Text     string // trimmed, never empty on success
	Language string // detected (or forced) language code
}

// Options tune every transcription pass of an Adapter.
type Options struct {
	Language      string // "" or "auto" = detect
	TranslateToEn bool
	Threads       int // <=0 => NumCPU()
}

// Adapter wraps a whisper.cpp model behind the two entry points the session
// needs: a file path or raw microphone PCM. The model is loaded on first
// use and shared by every later call.
type Adapter struct {
	modelPath string
	opts      Options

	once    sync.Once
	model   whisper.Model
	loadErr error
}

func NewAdapter(modelPath string, opts Options) *Adapter {
	return &Adapter{modelPath: modelPath, opts: opts}
}

func (a *Adapter) load() error {
	a.once.Do(func() {
		if a.modelPath == "" {
			a.loadErr = errors.New("empty model path")
			return
		}
		m, err := whisper.New(a.modelPath)
		if err != nil {
			a.loadErr = fmt.Errorf("load model: %w", err)
			return
		}
		a.model = m
	})
	return a.loadErr
}

func (a *Adapter) Close() error {
	if a.model == nil {
		return nil
	}
	return a.model.Close()
}

// TranscribeFile decodes an audio file and recognizes its speech.
func (a *Adapter) TranscribeFile(ctx context.Context, path string) (Transcript, error) {
	pcm, err := DecodeFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return a.TranscribePCM(ctx, pcm)
}

// TranscribePCM recognizes speech in mono 16 kHz float32 samples.
func (a *Adapter) TranscribePCM(ctx context.Context, pcm []float32) (Transcript, error) {
	if err := a.load(); err != nil {
		return Transcript{}, err
	}
	if len(pcm) == 0 {
		return Transcript{}, errors.New("no audio samples")
	}

	wctx, err := a.model.NewContext()
	if err != nil {
		return Transcript{}, fmt.Errorf("new context: %w", err)
	}

	lang := a.opts.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Transcript{}, fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(a.opts.TranslateToEn)

	threads := a.opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return Transcript{}, fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return Transcript{}, ctx.Err()
		default:
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Transcript{}, fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return Transcript{}, errors.New("no speech recognized")
	}

	detected := wctx.DetectedLanguage()
	if detected == "" {
		detected = wctx.Language()
	}

	return Transcript{Text: text, Language: detected}, nil
}
