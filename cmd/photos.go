package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sentinel-care/brandkit/internal/gemini"
	"github.com/sentinel-care/brandkit/internal/images"
	"github.com/sentinel-care/brandkit/internal/manifest"
	"github.com/sentinel-care/brandkit/internal/ollama"
	"github.com/sentinel-care/brandkit/internal/openai"
	"github.com/sentinel-care/brandkit/internal/providers"
	"github.com/sentinel-care/brandkit/internal/replicate"
	"github.com/sentinel-care/brandkit/internal/storage"
	"github.com/spf13/cobra"
)

func newPhotosCmd() *cobra.Command {
	var (
		dir          string
		campaignPath string
		manifestPath string
		pollInterval time.Duration
		maxPolls     int
		pace         time.Duration
		enhance      string
	)

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Generate campaign photography with a remote text-to-image model",
		Long: `Submits one generation job per campaign entry, polls it until it finishes
and saves the result. Entries whose file already exists are skipped, so an
interrupted run can simply be repeated.

The API token is read from REPLICATE_API_TOKEN.`,
		Example: `  # Generate the built-in campaign
  brandkit photos

  # Generate from a Parquet campaign file with Gemini-enhanced prompts
  brandkit photos --campaign campaign.parquet --enhance gemini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.Default().With("run_id", uuid.NewString()))

			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			assets := m.Assets
			if campaignPath != "" {
				assets, err = manifest.LoadAssets(campaignPath)
				if err != nil {
					return err
				}
			}

			enhancer, err := newEnhancer(enhance)
			if err != nil {
				return err
			}

			store, err := storage.New(dir)
			if err != nil {
				return err
			}

			fetcher := images.NewFetcher(replicate.NewClient(replicate.OptionsFromEnv()), store)
			fetcher.PollInterval = pollInterval
			fetcher.Pace = pace
			fetcher.MaxPolls = maxPolls
			fetcher.Enhancer = enhancer

			summary, err := fetcher.Run(cmd.Context(), assets)
			if err != nil {
				return fmt.Errorf("image generation aborted: %w", err)
			}

			fetcher.NotePlaceholders(m.Icons)
			summary.Print(cmd.OutOrStdout(), store.Dir())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "assets/images", "Output directory for generated images")
	cmd.Flags().StringVarP(&campaignPath, "campaign", "c", "", "Campaign file (.yaml, .jsonl or .parquet) replacing the built-in list")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest overriding the built-in lists")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", images.DefaultPollInterval, "Delay between status checks")
	cmd.Flags().IntVar(&maxPolls, "max-polls", images.DefaultMaxPolls, "Status checks before a job is abandoned (0 = unlimited)")
	cmd.Flags().DurationVar(&pace, "pace", images.DefaultPace, "Delay between generation jobs")
	cmd.Flags().StringVar(&enhance, "enhance", "", "Rewrite prompts with a text model before submission (gemini, openai, ollama)")

	return cmd
}

func newEnhancer(provider string) (*providers.Enhancer, error) {
	switch provider {
	case "":
		return nil, nil
	case "gemini":
		return providers.NewEnhancer(gemini.New(), gemini.Model()), nil
	case "openai":
		return providers.NewEnhancer(openai.New(), openai.Model()), nil
	case "ollama":
		return providers.NewEnhancer(ollama.New(), ollama.Model()), nil
	default:
		return nil, fmt.Errorf("unsupported enhance provider: %s", provider)
	}
}
