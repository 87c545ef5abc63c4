package transcribe

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

// targetRate is the only sample rate the speech model accepts.
const targetRate = 16000

// DecodeFile reads an audio file and returns mono float32 PCM at 16 kHz.
// Supported containers: wav, mp3, ogg (vorbis or opus). Files with an
// unknown extension are sniffed by magic bytes.
func DecodeFile(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".ogg", ".oga":
		return decodeOgg(f)
	}

	br := bufio.NewReader(f)
	magic, _ := br.Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(magic, []byte("RIFF")):
		return decodeWAV(f)
	case bytes.HasPrefix(magic, []byte("OggS")):
		return decodeOgg(f)
	case bytes.HasPrefix(magic, []byte("ID3")):
		return decodeMP3(f)
	}
	return nil, fmt.Errorf("unsupported audio format: %s", path)
}

func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return nil, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))
	x := make([]float32, len(pb.Data))
	for i, v := range pb.Data {
		x[i] = float32(max(-1, min(1, float64(v)*scale)))
	}

	channels, rate := 1, 44100
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			rate = pb.Format.SampleRate
		}
	}
	return toMono16k(x, channels, rate), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return nil, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always emits interleaved stereo
	return toMono16k(int16ToFloat32(ints), 2, rate), nil
}

func decodeOgg(r io.ReadSeeker) ([]float32, error) {
	if pcm, err := decodeVorbis(r); err == nil {
		return pcm, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	pcm, err := decodeOpus(r)
	if err != nil {
		return nil, fmt.Errorf("ogg is neither vorbis nor opus: %w", err)
	}
	return pcm, nil
}

func decodeVorbis(r io.Reader) ([]float32, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("invalid vorbis stream")
	}
	return toMono16k(pcm, format.Channels, format.SampleRate), nil
}

func decodeOpus(rs io.ReadSeeker) ([]float32, error) {
	dec, err := popus.NewDecoder(rs)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	channels := dec.ChannelCount()
	if channels <= 0 {
		channels = 1
	}

	// opus always decodes at 48 kHz
	var pcm48 []float32
	buf := make([]int16, 48000*channels/2)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			pcm48 = append(pcm48, int16ToFloat32(buf[:n*channels])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(pcm48) == 0 {
		return nil, errors.New("empty opus stream")
	}
	return toMono16k(pcm48, channels, 48000), nil
}

// toMono16k downmixes interleaved channels by averaging and resamples to
// targetRate with linear interpolation.
func toMono16k(in []float32, channels, rate int) []float32 {
	if channels > 1 {
		frames := len(in) / channels
		mono := make([]float32, frames)
		for i := 0; i < frames; i++ {
			var sum float64
			for c := 0; c < channels; c++ {
				sum += float64(in[i*channels+c])
			}
			mono[i] = float32(sum / float64(channels))
		}
		in = mono
	}
	if rate == targetRate || len(in) == 0 {
		return in
	}

	ratio := float64(targetRate) / float64(rate)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	for i := range out {
		src := float64(i) / ratio
		lo := int(src)
		if lo >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(src - float64(lo))
		out[i] = in[lo]*(1-frac) + in[lo+1]*frac
	}
	return out
}

func int16ToFloat32(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / 32768
	}
	return out
}
