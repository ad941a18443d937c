package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/spinecho/internal/sim"
)

// Player streams a Voice to the default output device. It implements
// sim.Observer so a simulation can drive it frame by frame.
type Player struct {
	Stream *portaudio.Stream
	Active bool

	voice *Voice
	scale float64

	mu         sync.Mutex
	magnitude  float64
	transverse float64
}

// NewPlayer divides transverse sums by scale before they bend the pitch.
func NewPlayer(scale float64) *Player {
	if scale <= 0 {
		scale = 1
	}
	return &Player{voice: NewVoice(), scale: scale}
}

func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}

	p.Stream = stream
	p.Active = true
	return nil
}

func (p *Player) Stop() {
	if p.Stream != nil {
		p.Stream.Stop()
		p.Stream.Close()
		p.Stream = nil
	}
	if p.Active {
		portaudio.Terminate()
	}
	p.Active = false
}

// Set updates the signal the voice follows.
func (p *Player) Set(magnitude, transverse float64) {
	p.mu.Lock()
	p.magnitude = magnitude
	p.transverse = transverse / p.scale
	p.mu.Unlock()
}

func (p *Player) OnFrame(f sim.Frame) { p.Set(f.Sample.Magnitude, f.Sample.Transverse) }
func (p *Player) OnReset()            { p.Set(0, 0) }

func (p *Player) process(in []float32, out [][]float32) {
	p.mu.Lock()
	m, t := p.magnitude, p.transverse
	p.mu.Unlock()

	for i := range out[0] {
		s := float32(p.voice.Next(m, t))
		out[0][i] = s
		out[1][i] = s
	}
}
