package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifCellW = 8
	gifCellH = 16
	gifDelay = 2
)

// GIFRecorder captures canvas frames and writes them as an animated GIF.
type GIFRecorder struct {
	frames []*image.Paletted
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

// Capture rasterises the canvas, one block per braille dot.
func (r *GIFRecorder) Capture(c *Canvas) {
	img := image.NewPaletted(
		image.Rect(0, 0, c.Width*gifCellW, c.Height*gifCellH),
		color.Palette{color.Black, color.White},
	)
	dotW, dotH := gifCellW/2, gifCellH/4
	c.EachDot(func(x, y int) {
		for py := 0; py < dotH; py++ {
			for px := 0; px < dotW; px++ {
				img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
			}
		}
	})
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and clears the recorder.
func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
