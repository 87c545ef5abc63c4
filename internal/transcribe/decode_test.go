package transcribe

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestDecodeFileMissing(t *testing.T) {
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.txt")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDecodeWAVResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	// 0.5 s of a 440 Hz tone, mono 8 kHz 16-bit
	const (
		rate   = 8000
		frames = rate / 2
	)
	data := make([]int, frames)
	for i := range data {
		data[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/rate))
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pcm, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	// 8 kHz input doubles to 16 kHz
	want := frames * targetRate / rate
	if len(pcm) < want-2 || len(pcm) > want+2 {
		t.Errorf("got %d samples, want ~%d", len(pcm), want)
	}
	for i, v := range pcm {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %f", i, v)
		}
	}
}

func TestToMono16kDownmix(t *testing.T) {
	// interleaved stereo at the target rate: only the downmix applies
	in := []float32{1, 0, 0.5, 0.5, -1, 1}
	got := toMono16k(in, 2, targetRate)
	want := []float32{0.5, 0.5, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("frame %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestToMono16kLength(t *testing.T) {
	in := make([]float32, 48000) // 1 s at 48 kHz
	got := toMono16k(in, 1, 48000)
	if len(got) != targetRate {
		t.Errorf("got %d samples, want %d", len(got), targetRate)
	}
}

func TestInt16ToFloat32Range(t *testing.T) {
	got := int16ToFloat32([]int16{-32768, 0, 16384, 32767})
	if got[0] != -1 || got[1] != 0 {
		t.Errorf("unexpected scaling: %v", got)
	}
	if got[2] != 0.5 {
		t.Errorf("16384 -> %f, want 0.5", got[2])
	}
	if got[3] >= 1 {
		t.Errorf("32767 should stay below 1, got %f", got[3])
	}
}
