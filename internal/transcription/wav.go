package transcription

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"reelscribe/internal/services"
)

// SampleRate is the only rate the inference engines accept.
const SampleRate = 16000

// ReadWAV decodes a mono 16 kHz PCM WAV file into samples normalized to [-1, 1].
func ReadWAV(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, stageName, "open audio", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, services.Wrap(services.ErrInference, stageName, "decode audio", "not a PCM WAV file", nil)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, services.Wrap(services.ErrInference, stageName, "decode audio", "", err)
	}
	if decoder.SampleRate != SampleRate || decoder.NumChans != 1 {
		return nil, services.Wrap(services.ErrInference, stageName, "decode audio",
			fmt.Sprintf("expected mono %d Hz, got %d channel(s) at %d Hz", SampleRate, decoder.NumChans, decoder.SampleRate), nil)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, services.Wrap(services.ErrInference, stageName, "decode audio", fmt.Sprintf("unsupported bit depth %d", bitDepth), nil)
	}
	scale := float32(math.Pow(2, float64(bitDepth-1)))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = clampSample(float32(v) / scale)
	}
	return samples, nil
}

// WriteWAV encodes samples in [-1, 1] as a mono 16 kHz 16-bit PCM WAV file.
func WriteWAV(path string, samples []float32) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, stageName, "create audio", path, err)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(clampSample(s) * math.MaxInt16)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	encoder := wav.NewEncoder(file, SampleRate, 16, 1, 1)
	if err := encoder.Write(buf); err != nil {
		_ = file.Close()
		return services.Wrap(services.ErrFilesystem, stageName, "write audio", path, err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return services.Wrap(services.ErrFilesystem, stageName, "finalize audio", path, err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrFilesystem, stageName, "close audio", path, err)
	}
	return nil
}

func clampSample(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
