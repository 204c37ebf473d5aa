package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sentinel-care/brandkit/internal/models"
	"github.com/sentinel-care/brandkit/internal/providers"
	"github.com/sentinel-care/brandkit/internal/replicate"
	"github.com/sentinel-care/brandkit/internal/storage"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPace         = 3 * time.Second
	// DefaultMaxPolls bounds a single job to roughly five minutes of polling
	DefaultMaxPolls = 150
)

// ErrPollLimit is returned when a job is still running after MaxPolls checks
var ErrPollLimit = errors.New("prediction still running at poll limit")

// Generator is the part of the prediction API the fetcher uses
type Generator interface {
	CreatePrediction(ctx context.Context, version string, input replicate.Input) (*models.GenerationJob, error)
	GetPrediction(ctx context.Context, id string) (*models.GenerationJob, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Outcome is what happened to one campaign entry
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records one processed entry
type Result struct {
	Filename string
	Outcome  Outcome
	JobID    string
	Path     string
	Err      error
}

// Summary tallies a campaign run
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case OutcomeGenerated:
		s.Generated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Print writes the end-of-run report
func (s *Summary) Print(w io.Writer, dir string) {
	fmt.Fprintf(w, "\nImage generation complete!\n")
	fmt.Fprintf(w, "  Generated: %d\n", s.Generated)
	fmt.Fprintf(w, "  Skipped (already exists): %d\n", s.Skipped)
	fmt.Fprintf(w, "  Failed: %d\n", s.Failed)
	fmt.Fprintf(w, "  Images saved to: %s\n", dir)
	if s.Failed > 0 {
		fmt.Fprintf(w, "\nRe-run to retry the %d missing file(s).\n", s.Failed)
	}
}

// Fetcher generates campaign photographs one at a time. Files already in the
// store are never regenerated or overwritten.
type Fetcher struct {
	Client   Generator
	Store    *storage.AssetStore
	Version  string
	Enhancer *providers.Enhancer

	PollInterval time.Duration
	Pace         time.Duration
	MaxPolls     int

	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a fetcher with the default model and timings
func NewFetcher(client Generator, store *storage.AssetStore) *Fetcher {
	return &Fetcher{
		Client:       client,
		Store:        store,
		Version:      replicate.SDXLVersion,
		PollInterval: DefaultPollInterval,
		Pace:         DefaultPace,
		MaxPolls:     DefaultMaxPolls,
		sleep:        sleepContext,
	}
}

// Run processes assets in order. Remote failures are logged and counted; the
// returned error is reserved for cancellation and local filesystem faults.
func (f *Fetcher) Run(ctx context.Context, assets []models.AssetSpec) (*Summary, error) {
	summary := &Summary{}
	attempted := 0

	slog.Info("Starting image generation", "assets", len(assets), "dir", f.Store.Dir())

	for i, asset := range assets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		exists, err := f.Store.Exists(asset.Filename)
		if err != nil {
			return summary, err
		}
		if exists {
			slog.Info("Image already exists, skipping", "file", asset.Filename)
			summary.add(Result{Filename: asset.Filename, Outcome: OutcomeSkipped})
			continue
		}

		// client-side pacing between remote jobs
		if attempted > 0 {
			if err := f.wait(ctx, f.Pace); err != nil {
				return summary, err
			}
		}
		attempted++

		slog.Info("Processing asset", "index", i+1, "total", len(assets), "file", asset.Filename)
		result, err := f.Generate(ctx, asset)
		if err != nil {
			return summary, err
		}
		summary.add(result)
	}

	return summary, nil
}

// Generate submits, polls and downloads a single asset
func (f *Fetcher) Generate(ctx context.Context, asset models.AssetSpec) (Result, error) {
	result := Result{Filename: asset.Filename, Outcome: OutcomeFailed}

	slog.Info("Generating image", "file", asset.Filename, "prompt", truncate(asset.Prompt, 100))
	prompt := f.Enhancer.Enhance(ctx, asset.Prompt)

	job, err := f.Client.CreatePrediction(ctx, f.Version, replicate.SDXLInput(prompt))
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Error("Error starting prediction", "file", asset.Filename, "error", err)
		result.Err = err
		return result, nil
	}
	result.JobID = job.ID
	slog.Info("Started generation", "file", asset.Filename, "id", job.ID)

	outputURL, err := f.poll(ctx, job.ID)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Error("Failed to generate image", "file", asset.Filename, "id", job.ID, "error", err)
		result.Err = err
		return result, nil
	}
	slog.Info("Generated image", "file", asset.Filename, "id", job.ID)

	data, err := f.Client.Download(ctx, outputURL)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Error("Failed to download image", "file", asset.Filename, "url", outputURL, "error", err)
		result.Err = err
		return result, nil
	}

	path, err := f.Store.Write(asset.Filename, data)
	if err != nil {
		return result, err
	}

	slog.Info("Saved image", "path", path, "bytes", len(data))
	result.Outcome = OutcomeGenerated
	result.Path = path
	return result, nil
}

// poll checks the job immediately and then every PollInterval until it
// reaches a terminal status, MaxPolls is exhausted or ctx is done.
func (f *Fetcher) poll(ctx context.Context, id string) (string, error) {
	for attempt := 1; ; attempt++ {
		job, err := f.Client.GetPrediction(ctx, id)
		if err != nil {
			return "", err
		}

		if job.Status.Terminal() {
			if job.Status == models.StatusFailed {
				return "", fmt.Errorf("prediction failed: %s", job.FailureReason())
			}
			outputURL, ok := job.FirstOutput()
			if !ok {
				return "", errors.New("prediction succeeded without output")
			}
			return outputURL, nil
		}

		slog.Debug("Prediction in progress", "id", id, "status", job.Status, "attempt", attempt)
		if f.MaxPolls > 0 && attempt >= f.MaxPolls {
			return "", fmt.Errorf("%w: %d polls, last status %q", ErrPollLimit, attempt, job.Status)
		}
		if err := f.wait(ctx, f.PollInterval); err != nil {
			return "", err
		}
	}
}

// NotePlaceholders logs every icon variant missing from the store. It only
// reports; rendering icons is the rasterizer's job.
func (f *Fetcher) NotePlaceholders(icons []models.IconSpec) []string {
	var missing []string
	for _, icon := range icons {
		exists, err := f.Store.Exists(icon.Filename)
		if err != nil {
			slog.Warn("Unable to check favicon variant", "file", icon.Filename, "error", err)
			continue
		}
		if !exists {
			slog.Info("Favicon variant missing, placeholder noted", "file", icon.Filename, "size", icon.Size)
			missing = append(missing, icon.Filename)
		}
	}
	return missing
}

func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	if f.sleep == nil {
		return sleepContext(ctx, d)
	}
	return f.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
