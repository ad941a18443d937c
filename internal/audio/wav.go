package audio

import (
	"encoding/binary"
	"io"
	"math"
	"os"
)

// WriteWAV encodes mono samples in [-1, 1] as 16-bit PCM.
func WriteWAV(w io.Writer, samples []float32) error {
	dataLen := uint32(len(samples) * 2)
	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		36 + dataLen,
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),             // fmt chunk size
		uint16(1),              // PCM
		uint16(1),              // mono
		uint32(SampleRate),     // sample rate
		uint32(SampleRate * 2), // byte rate
		uint16(2),              // block align
		uint16(16),             // bits per sample
		[4]byte{'d', 'a', 't', 'a'},
		dataLen,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = int16(math.Max(-1, math.Min(1, float64(s))) * math.MaxInt16)
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}

func SaveWAV(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteWAV(f, samples)
}
