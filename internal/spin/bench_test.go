package spin

import (
	"math"
	"testing"

	"github.com/san-kum/spinecho/internal/dynamo"
)

func benchPrecess(b *testing.B, count, workers int) {
	cfg := DefaultConfig()
	cfg.Count = count
	cfg.Workers = workers
	e, err := New(cfg, nil)
	if err != nil {
		b.Fatal(err)
	}
	if err := e.ApplyPulse(dynamo.AxisX, math.Pi/2); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.PrecessStep(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPrecess180(b *testing.B)        { benchPrecess(b, 180, 0) }
func BenchmarkPrecess4096(b *testing.B)       { benchPrecess(b, 4096, 0) }
func BenchmarkPrecess4096Serial(b *testing.B) { benchPrecess(b, 4096, 1) }

func BenchmarkApplyPulse(b *testing.B) {
	e, err := New(DefaultConfig(), nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.ApplyPulse(dynamo.AxisX, math.Pi); err != nil {
			b.Fatal(err)
		}
	}
}
