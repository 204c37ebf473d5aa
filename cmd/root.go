package cmd

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/sentinel-care/brandkit/internal/manifest"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "brandkit",
		Short: "Brand asset generator for the Sentinel Care website",
		Long: `Brandkit produces the static image assets of the marketing site.

The icons command draws the shield-and-S favicon set locally. The photos
command generates campaign photography through a remote text-to-image API,
skipping any file that already exists.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogger(cmd.OutOrStdout(), verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newIconsCmd())
	cmd.AddCommand(newPhotosCmd())

	return cmd
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		return manifest.Default(), nil
	}
	return manifest.LoadFile(path)
}
