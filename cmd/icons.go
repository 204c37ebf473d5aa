package cmd

import (
	"fmt"
	"os"

	"github.com/sentinel-care/brandkit/internal/icons"
	"github.com/sentinel-care/brandkit/internal/storage"
	"github.com/spf13/cobra"
)

func newIconsCmd() *cobra.Command {
	var (
		dir          string
		icoPath      string
		fontPath     string
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Render the favicon set and the multi-resolution favicon.ico",
		Long: `Draws every icon variant in the manifest as a PNG and bundles small
glyph-only frames into a single ICO file.

Icons of 32px and below show only the gold "S"; larger icons add the shield
outline. Every run redraws and overwrites all icon files.`,
		Example: `  # Render the default set into assets/images
  brandkit icons

  # Use a different font and output directory
  brandkit icons --font ./fonts/Inter-Bold.ttf --dir public/img`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ico") || m.Container.Path == "" {
				m.Container.Path = icoPath
			}

			store, err := storage.New(dir)
			if err != nil {
				return err
			}

			rasterizer := icons.NewRasterizer(icons.NewRenderer(fontPath), cmd.OutOrStdout())
			if _, err := rasterizer.WriteIcons(store, m.Icons); err != nil {
				return fmt.Errorf("failed to write icons: %w", err)
			}
			if err := rasterizer.WriteContainer(m.Container.Path, m.Container.Sizes); err != nil {
				return fmt.Errorf("failed to write %s: %w", m.Container.Path, err)
			}
			return nil
		},
	}

	defaultFont := os.Getenv("BRANDKIT_FONT")
	if defaultFont == "" {
		defaultFont = icons.DefaultFontPath
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "assets/images", "Output directory for icon PNGs")
	cmd.Flags().StringVar(&icoPath, "ico", "favicon.ico", "Path of the multi-resolution ICO file")
	cmd.Flags().StringVar(&fontPath, "font", defaultFont, "TrueType font for the glyph (env: BRANDKIT_FONT)")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest overriding the built-in icon list")

	return cmd
}
