// Package audio captures microphone input as 16 kHz mono PCM, the format
// the speech model consumes directly.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20 ms
	frameDur   = 20 * time.Millisecond
)

// Recorder owns the portaudio runtime. ChimePath, when set, names an mp3
// cue played right before capture so the user knows the microphone is live.
type Recorder struct {
	ChimePath string
}

func NewRecorder(chimePath string) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &Recorder{ChimePath: chimePath}, nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Capture records one utterance from the default input device. It waits
// for the level to rise above the noise floor, then stops after sustained
// silence or maxDur, whichever comes first.
func (r *Recorder) Capture(maxDur time.Duration) ([]float32, error) {
	const (
		noiseFloorRMS = 0.015
		hangover      = 600 * time.Millisecond
	)
	if maxDur <= 0 {
		maxDur = 10 * time.Second
	}

	if r.ChimePath != "" {
		// Cue failures are not worth aborting the capture for.
		_ = chime(r.ChimePath)
	}

	frame := make([]float32, frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(frame), frame)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		pcm     []float32
		talking bool
		quiet   time.Duration
	)
	for i := 0; i < int(maxDur/frameDur); i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(frame) > noiseFloorRMS {
			talking = true
			quiet = 0
			pcm = append(pcm, frame...)
			continue
		}
		if !talking {
			continue
		}
		quiet += frameDur
		if quiet >= hangover {
			break
		}
		pcm = append(pcm, frame...)
	}

	if len(pcm) == 0 {
		return nil, errors.New("no speech captured")
	}
	return pcm, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
