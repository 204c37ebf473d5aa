package icons

import (
	"log/slog"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontPath is the bold sans-serif face the glyph is designed for
const DefaultFontPath = "/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf"

// FaceSource records which tier a face was resolved from
type FaceSource int

const (
	SourcePreferred FaceSource = iota
	SourceFallback
)

func (s FaceSource) String() string {
	if s == SourcePreferred {
		return "preferred"
	}
	return "fallback"
}

// Fonts resolves glyph faces in two tiers: the preferred TrueType file at the
// requested point size, then a built-in bitmap face. The fallback has a fixed
// 7x13 cell, so on large canvases the glyph renders small; that degradation
// is accepted rather than treated as an error.
type Fonts struct {
	Preferred string
	Fallback  font.Face

	faces map[float64]font.Face
}

// NewFonts returns a resolver preferring the TrueType file at path
func NewFonts(path string) *Fonts {
	return &Fonts{
		Preferred: path,
		Fallback:  basicfont.Face7x13,
		faces:     make(map[float64]font.Face),
	}
}

// Face returns a face for the given point size and where it came from
func (f *Fonts) Face(points float64) (font.Face, FaceSource) {
	if face, ok := f.faces[points]; ok {
		return face, SourcePreferred
	}

	if f.Preferred != "" {
		face, err := gg.LoadFontFace(f.Preferred, points)
		if err == nil {
			if f.faces == nil {
				f.faces = make(map[float64]font.Face)
			}
			f.faces[points] = face
			return face, SourcePreferred
		}
		slog.Debug("Preferred font unavailable, using built-in face", "path", f.Preferred, "points", points, "error", err)
	}

	if f.Fallback == nil {
		return basicfont.Face7x13, SourceFallback
	}
	return f.Fallback, SourceFallback
}
