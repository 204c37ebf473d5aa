package icons

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// GlyphOnlyMaxSize is the largest canvas drawn without the shield outline.
// Below this the outline stops being legible.
const GlyphOnlyMaxSize = 32

const (
	glyphOnlyScale = 0.6
	shieldScale    = 0.35
	minStrokeWidth = 2
)

var (
	Navy = color.RGBA{R: 10, G: 22, B: 40, A: 255}
	Gold = color.RGBA{R: 255, G: 215, B: 0, A: 255}
)

// shieldOutline is the shield silhouette as fractions of the canvas size,
// clockwise from the top center.
var shieldOutline = []gg.Point{
	{X: 0.5, Y: 0.1},
	{X: 0.2, Y: 0.25},
	{X: 0.2, Y: 0.6},
	{X: 0.5, Y: 0.9},
	{X: 0.8, Y: 0.6},
	{X: 0.8, Y: 0.25},
}

// Layout is the drawing plan for one canvas size
type Layout struct {
	Size        int
	Shield      bool
	GlyphPoints float64
	StrokeWidth float64
	Outline     []gg.Point
}

// LayoutFor returns the two-tier drawing plan for size
func LayoutFor(size int) Layout {
	if size <= GlyphOnlyMaxSize {
		return glyphOnlyLayout(size)
	}

	outline := make([]gg.Point, len(shieldOutline))
	for i, p := range shieldOutline {
		outline[i] = gg.Point{X: float64(size) * p.X, Y: float64(size) * p.Y}
	}

	return Layout{
		Size:        size,
		Shield:      true,
		GlyphPoints: glyphPoints(size, shieldScale),
		StrokeWidth: float64(max(minStrokeWidth, size/50)),
		Outline:     outline,
	}
}

func glyphOnlyLayout(size int) Layout {
	return Layout{
		Size:        size,
		GlyphPoints: glyphPoints(size, glyphOnlyScale),
	}
}

func glyphPoints(size int, scale float64) float64 {
	return float64(max(1, int(float64(size)*scale)))
}

// Renderer draws the brand mark
type Renderer struct {
	Glyph      string
	Background color.RGBA
	Accent     color.RGBA
	Fonts      *Fonts
}

// NewRenderer returns a navy/gold "S" renderer using the font at fontPath
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{
		Glyph:      "S",
		Background: Navy,
		Accent:     Gold,
		Fonts:      NewFonts(fontPath),
	}
}

// Render draws the icon for size following LayoutFor
func (r *Renderer) Render(size int) (image.Image, Layout) {
	layout := LayoutFor(size)
	return r.draw(layout), layout
}

// RenderGlyph draws the glyph-only variant regardless of size
func (r *Renderer) RenderGlyph(size int) image.Image {
	return r.draw(glyphOnlyLayout(size))
}

func (r *Renderer) draw(l Layout) image.Image {
	dc := gg.NewContext(l.Size, l.Size)
	dc.SetColor(r.Background)
	dc.Clear()

	dc.SetColor(r.Accent)
	if l.Shield {
		dc.SetLineWidth(l.StrokeWidth)
		dc.MoveTo(l.Outline[0].X, l.Outline[0].Y)
		for _, p := range l.Outline[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Stroke()
	}

	face, _ := r.Fonts.Face(l.GlyphPoints)
	dc.SetFontFace(face)
	x, y := glyphOrigin(face, r.Glyph, l.Size)
	dc.DrawString(r.Glyph, x, y)

	return dc.Image()
}

// glyphOrigin returns the baseline origin that centers the glyph's measured
// bounding box on a size x size canvas.
func glyphOrigin(face font.Face, glyph string, size int) (float64, float64) {
	bounds, _ := font.BoundString(face, glyph)
	minX, minY := fixedToFloat(bounds.Min.X), fixedToFloat(bounds.Min.Y)
	w := fixedToFloat(bounds.Max.X) - minX
	h := fixedToFloat(bounds.Max.Y) - minY

	x := math.Floor((float64(size)-w)/2) - minX
	y := math.Floor((float64(size)-h)/2) - minY
	return x, y
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
