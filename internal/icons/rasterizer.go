package icons

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"
	"github.com/sentinel-care/brandkit/internal/models"
	"github.com/sentinel-care/brandkit/internal/storage"
)

// Rasterizer renders icon specs to disk. It never checks for existing files:
// every run redraws and overwrites.
type Rasterizer struct {
	Renderer *Renderer
	Out      io.Writer
}

func NewRasterizer(renderer *Renderer, out io.Writer) *Rasterizer {
	return &Rasterizer{Renderer: renderer, Out: out}
}

// WriteIcons renders each spec in order as PNG into store and returns the written paths
func (r *Rasterizer) WriteIcons(store *storage.AssetStore, specs []models.IconSpec) ([]string, error) {
	paths := make([]string, 0, len(specs))

	for _, spec := range specs {
		img, layout := r.Renderer.Render(spec.Size)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return paths, fmt.Errorf("failed to encode %s: %w", spec.Filename, err)
		}

		path, err := store.Write(spec.Filename, buf.Bytes())
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)

		slog.Debug("Rendered icon", "file", spec.Filename, "size", spec.Size, "shield", layout.Shield, "glyph_points", layout.GlyphPoints)
		fmt.Fprintf(r.Out, "Created %s (%dx%d)\n", spec.Filename, spec.Size, spec.Size)
	}

	return paths, nil
}

// WriteContainer renders glyph-only frames for sizes and bundles them into one ICO file at path
func (r *Rasterizer) WriteContainer(path string, sizes []int) error {
	if len(sizes) == 0 {
		return errors.New("ico: at least one frame size is required")
	}

	frames := make([]image.Image, 0, len(sizes))
	for _, size := range sizes {
		if size <= 0 || size > 256 {
			return fmt.Errorf("ico: frame size %d out of range (1-256)", size)
		}
		frames = append(frames, r.Renderer.RenderGlyph(size))
	}

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, frames); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(r.Out, "Created %s\n", path)
	return nil
}
