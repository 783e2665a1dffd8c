// Package overlay renders the measurement overlay to a transparent PNG,
// so it can be laid over a screenshot of the chart it was taken on.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"chartmeasure/geom"
	"chartmeasure/measure"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	arrowLength  = 15
	pointRadius  = 6
	tempRadius   = 8
	lineWidth    = 2
	calLineWidth = 3
	dashLength   = 5
	labelOffset  = 20
)

var (
	colNorth   = hexToColor(0x2196F3FF)
	colScale   = hexToColor(0xFF9800FF)
	colPending = hexToColor(0xFFC107FF)
	colMeasure = hexToColor(0x2196F3FF)
	colWhite   = hexToColor(0xFFFFFFFF)
)

func hexToColor(hex uint32) color.RGBA {
	return color.RGBA{
		R: uint8(hex >> 24),
		G: uint8(hex >> 16),
		B: uint8(hex >> 8),
		A: uint8(hex),
	}
}

func olog() *zerolog.Logger {
	l := log.With().Str("module", "overlay").Logger()
	return &l
}

// Options sizes the output. Scale is output pixels per screen unit; 0 means 1.
type Options struct {
	Width  int
	Height int
	Scale  float64
}

type canvas struct {
	img   *image.RGBA
	scale float64
}

// Render draws snap onto a new transparent image.
func Render(snap measure.Snapshot, opts Options) *image.RGBA {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		scale: opts.Scale,
	}

	if snap.NorthLine != nil {
		c.calibrationLine(*snap.NorthLine, colNorth, "North")
	}
	if snap.ScaleLine != nil {
		c.calibrationLine(*snap.ScaleLine, colScale, "Scale")
	}
	if snap.Pending != nil {
		c.point(c.px(*snap.Pending), colPending, tempRadius)
	}
	for _, m := range snap.Measurements {
		c.measurement(m)
	}

	olog().Debug().
		Int("measurements", len(snap.Measurements)).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Msg("overlay rendered")
	return c.img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (c *canvas) px(p geom.Point) geom.Point {
	return geom.Point{X: p.X * c.scale, Y: p.Y * c.scale}
}

func (c *canvas) calibrationLine(l measure.Line, col color.RGBA, label string) {
	a, b := c.px(l.P1), c.px(l.P2)
	c.dashed(a, b, calLineWidth, col)
	c.point(a, col, pointRadius)
	c.point(b, col, pointRadius)
	c.label(geom.Midpoint(a, b), label, col)
}

func (c *canvas) measurement(m measure.Measurement) {
	a, b := c.px(m.Point1), c.px(m.Point2)
	c.segment(a, b, lineWidth, colMeasure)
	if a != b {
		l, r := geom.ArrowHead(a, b, arrowLength, math.Pi/6)
		c.fill(colMeasure, b, l, r)
	}
	c.point(a, colMeasure, pointRadius)
	c.point(b, colMeasure, pointRadius)
	c.label(geom.Midpoint(a, b), m.Label, colMeasure)
}

// segment fills the rectangle of the given width around a-b.
func (c *canvas) segment(a, b geom.Point, width float64, col color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	ox, oy := -dy/n*width/2, dx/n*width/2
	c.fill(col,
		geom.Point{X: a.X + ox, Y: a.Y + oy},
		geom.Point{X: b.X + ox, Y: b.Y + oy},
		geom.Point{X: b.X - ox, Y: b.Y - oy},
		geom.Point{X: a.X - ox, Y: a.Y - oy},
	)
}

func (c *canvas) dashed(a, b geom.Point, width float64, col color.RGBA) {
	n := geom.PixelDistance(a, b)
	if n == 0 {
		return
	}
	ux, uy := (b.X-a.X)/n, (b.Y-a.Y)/n
	for s := 0.0; s < n; s += 2 * dashLength {
		e := math.Min(s+dashLength, n)
		c.segment(
			geom.Point{X: a.X + ux*s, Y: a.Y + uy*s},
			geom.Point{X: a.X + ux*e, Y: a.Y + uy*e},
			width, col,
		)
	}
}

// point is a filled disc with a white rim.
func (c *canvas) point(p geom.Point, col color.RGBA, r float64) {
	c.disc(p, r+1, colWhite)
	c.disc(p, r-1, col)
}

func (c *canvas) disc(p geom.Point, r float64, col color.RGBA) {
	const steps = 24
	pts := make([]geom.Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i] = geom.Point{X: p.X + r*math.Cos(a), Y: p.Y + r*math.Sin(a)}
	}
	c.fill(col, pts...)
}

// fill rasterizes a closed polygon inside its own bounding box.
func (c *canvas) fill(col color.RGBA, pts ...geom.Point) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	clip := box.Intersect(c.img.Bounds())
	if clip.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()
	z.Draw(c.img, clip, image.NewUniform(col), clip.Min.Sub(box.Min))
}

// label draws text on a tinted box centered above p.
func (c *canvas) label(p geom.Point, text string, col color.RGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	x := int(math.Round(p.X)) - w/2
	y := int(math.Round(p.Y)) - labelOffset

	bg := color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xE6}
	box := image.Rect(x-4, y-face.Ascent-2, x+w+4, y+face.Descent+2)
	draw.Draw(c.img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(colWhite),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
