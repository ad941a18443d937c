package pulse_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
)

type pulseLog struct {
	axes   []dynamo.Axis
	angles []float64
	err    error
}

func (p *pulseLog) ApplyPulse(axis dynamo.Axis, angle float64) error {
	if p.err != nil {
		return p.err
	}
	p.axes = append(p.axes, axis)
	p.angles = append(p.angles, angle)
	return nil
}

var _ = Describe("Scheduler", func() {
	var sched *pulse.Scheduler

	BeforeEach(func() {
		var err error
		sched, err = pulse.NewScheduler(150, 300)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("FrameSchedule", func() {
		It("fires at 150, 450 and 750 over frames 0..899", func() {
			Expect(sched.FrameSchedule(900)).To(Equal([]int{150, 450, 750}))
		})

		It("follows the configured period", func() {
			s, err := pulse.NewScheduler(150, 600)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.FrameSchedule(1500)).To(Equal([]int{150, 750, 1350}))
		})

		It("never fires at frame zero", func() {
			Expect(sched.Evaluate(0, pulse.DefaultConfig()).Fire).To(BeFalse())
		})
	})

	Describe("Next", func() {
		It("finds the first pulse from the start", func() {
			f, d, ok := sched.Next(0, pulse.DefaultConfig())
			Expect(ok).To(BeTrue())
			Expect(f).To(Equal(150))
			Expect(d.Kind).To(Equal(pulse.KindFirst))
		})

		It("skips to the next periodic pulse with the configured angle", func() {
			cfg := pulse.Config{Mode: pulse.VariableFlipAngle, FlipAngleDegrees: 60}
			f, d, ok := sched.Next(150, cfg)
			Expect(ok).To(BeTrue())
			Expect(f).To(Equal(450))
			Expect(d.Kind).To(Equal(pulse.KindPeriodic))
			Expect(d.Angle).To(BeNumerically("~", pulse.Radians(60), 1e-12))
		})
	})

	Describe("unvalidated schedulers", func() {
		It("only fires the first pulse when the period is zero", func() {
			var zero pulse.Scheduler
			Expect(zero.Evaluate(10, pulse.DefaultConfig()).Fire).To(BeFalse())

			s := pulse.Scheduler{FirstFrame: 5}
			Expect(s.Evaluate(5, pulse.DefaultConfig()).Fire).To(BeTrue())
			Expect(s.FrameSchedule(100)).To(Equal([]int{5}))
		})

		It("gives up on Next instead of searching forever", func() {
			s := pulse.Scheduler{FirstFrame: 150, Period: 100}
			_, _, ok := s.Next(150, pulse.DefaultConfig())
			Expect(ok).To(BeFalse())

			var zero pulse.Scheduler
			_, _, ok = zero.Next(0, pulse.DefaultConfig())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Evaluate", func() {
		var cfg pulse.Config

		BeforeEach(func() {
			cfg = pulse.Config{Mode: pulse.VariableFlipAngle, FlipAngleDegrees: 45}
		})

		It("always fires 180° at the first pulse", func() {
			d := sched.Evaluate(150, cfg)
			Expect(d.Fire).To(BeTrue())
			Expect(d.Kind).To(Equal(pulse.KindFirst))
			Expect(d.Axis).To(Equal(dynamo.AxisX))
			Expect(d.Angle).To(BeNumerically("~", math.Pi, 1e-12))
		})

		It("uses the flip angle for later pulses in VFA mode", func() {
			d := sched.Evaluate(450, cfg)
			Expect(d.Fire).To(BeTrue())
			Expect(d.Kind).To(Equal(pulse.KindPeriodic))
			Expect(d.Angle).To(BeNumerically("~", math.Pi/4, 1e-12))
		})

		It("uses 180° for later pulses in fixed mode", func() {
			cfg.Mode = pulse.Fixed180
			Expect(sched.Evaluate(750, cfg).Angle).To(BeNumerically("~", math.Pi, 1e-12))
		})

		It("stays idle between pulses", func() {
			for _, f := range []int{1, 149, 151, 300, 449, 451} {
				Expect(sched.Evaluate(f, cfg).Fire).To(BeFalse(), "frame %d", f)
			}
		})
	})

	Describe("Apply", func() {
		It("forwards due pulses to the target", func() {
			target := &pulseLog{}
			cfg := pulse.Config{Mode: pulse.VariableFlipAngle, FlipAngleDegrees: 90}
			for f := 0; f < 900; f++ {
				_, err := sched.Apply(f, cfg, target)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(target.axes).To(HaveLen(3))
			Expect(target.angles[0]).To(BeNumerically("~", math.Pi, 1e-12))
			Expect(target.angles[1]).To(BeNumerically("~", math.Pi/2, 1e-12))
		})

		It("wraps target failures", func() {
			boom := errors.New("boom")
			_, err := sched.Apply(150, pulse.DefaultConfig(), &pulseLog{err: boom})
			Expect(err).To(MatchError(boom))
		})

		It("leaves the target alone on idle frames", func() {
			target := &pulseLog{}
			d, err := sched.Apply(10, pulse.DefaultConfig(), target)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Fire).To(BeFalse())
			Expect(target.axes).To(BeEmpty())
		})
	})

	DescribeTable("rejects invalid timing",
		func(first, period int) {
			_, err := pulse.NewScheduler(first, period)
			Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
		},
		Entry("period equal to first frame", 150, 150),
		Entry("period below first frame", 150, 100),
		Entry("zero first frame", 0, 300),
	)
})
