package pulse

import (
	"fmt"
	"math"

	"github.com/san-kum/spinecho/internal/dynamo"
)

// Kind records why a pulse fired.
type Kind int

const (
	KindNone Kind = iota
	KindFirst
	KindPeriodic
	KindManual
)

func (k Kind) String() string {
	switch k {
	case KindFirst:
		return "first"
	case KindPeriodic:
		return "periodic"
	case KindManual:
		return "manual"
	default:
		return "none"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{KindNone, KindFirst, KindPeriodic, KindManual} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("%w: unknown pulse kind %q", dynamo.ErrInvalidArgument, text)
}

// Decision is the outcome of evaluating one frame.
type Decision struct {
	Fire  bool
	Kind  Kind
	Axis  dynamo.Axis
	Angle float64
}

// Event is a pulse that was applied to the ensemble.
type Event struct {
	Frame int         `json:"frame"`
	Kind  Kind        `json:"kind"`
	Axis  dynamo.Axis `json:"axis"`
	Angle float64     `json:"angle"`
}

func (e Event) String() string {
	return fmt.Sprintf("frame %d: %s %.1f° about %s", e.Frame, e.Kind, Degrees(e.Angle), e.Axis)
}

// Pulser is anything a pulse can be applied to.
type Pulser interface {
	ApplyPulse(axis dynamo.Axis, angle float64) error
}

// Scheduler fires a 180° pulse at FirstFrame and then one pulse every Period
// frames, at frames where frame%Period == FirstFrame. It keeps no state.
type Scheduler struct {
	FirstFrame int
	Period     int
	Axis       dynamo.Axis
}

func NewScheduler(firstFrame, period int) (*Scheduler, error) {
	s := &Scheduler{FirstFrame: firstFrame, Period: period, Axis: dynamo.AxisX}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate requires Period > FirstFrame >= 1, otherwise frame%Period could
// never equal FirstFrame and only the first pulse would ever fire.
func (s *Scheduler) Validate() error {
	if s.FirstFrame < 1 {
		return fmt.Errorf("%w: first pulse frame must be >= 1, got %d", dynamo.ErrConfiguration, s.FirstFrame)
	}
	if s.Period <= s.FirstFrame {
		return fmt.Errorf("%w: period %d must exceed first pulse frame %d", dynamo.ErrConfiguration, s.Period, s.FirstFrame)
	}
	if !s.Axis.Valid() {
		return fmt.Errorf("%w: unknown pulse axis %d", dynamo.ErrInvalidArgument, int(s.Axis))
	}
	return nil
}

// Evaluate decides whether a pulse fires at frame. A scheduler with a
// non-positive period only fires its first pulse.
func (s *Scheduler) Evaluate(frame int, cfg Config) Decision {
	switch {
	case frame == s.FirstFrame:
		return Decision{Fire: true, Kind: KindFirst, Axis: s.Axis, Angle: math.Pi}
	case frame > 0 && s.Period > 0 && frame%s.Period == s.FirstFrame:
		angle := math.Pi
		if cfg.Mode == VariableFlipAngle {
			angle = Radians(cfg.FlipAngleDegrees)
		}
		return Decision{Fire: true, Kind: KindPeriodic, Axis: s.Axis, Angle: angle}
	}
	return Decision{}
}

// Apply evaluates frame and, if a pulse is due, applies it to target.
func (s *Scheduler) Apply(frame int, cfg Config, target Pulser) (Decision, error) {
	d := s.Evaluate(frame, cfg)
	if !d.Fire {
		return d, nil
	}
	if err := target.ApplyPulse(d.Axis, d.Angle); err != nil {
		return d, fmt.Errorf("%s pulse: %w", d.Kind, err)
	}
	return d, nil
}

// FrameSchedule lists the frames in [0, n) at which a pulse fires.
func (s *Scheduler) FrameSchedule(n int) []int {
	frames := make([]int, 0)
	for f := 0; f < n; f++ {
		if s.Evaluate(f, Config{}).Fire {
			frames = append(frames, f)
		}
	}
	return frames
}

// Next returns the first frame after frame at which a pulse fires, with
// the decision cfg would produce there. It reports false when no pulse
// fires within one period, which only happens for an invalid schedule.
func (s *Scheduler) Next(frame int, cfg Config) (int, Decision, bool) {
	limit := frame + max(s.FirstFrame, s.Period, 1)
	for f := frame + 1; f <= limit; f++ {
		if d := s.Evaluate(f, cfg); d.Fire {
			return f, d, true
		}
	}
	return 0, Decision{}, false
}
