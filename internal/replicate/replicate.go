package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sentinel-care/brandkit/internal/models"
)

const (
	DefaultBaseURL = "https://api.replicate.com"

	// PlaceholderToken is sent when REPLICATE_API_TOKEN is unset. The service
	// rejects it; nothing checks it locally.
	PlaceholderToken = "YOUR_TOKEN_HERE"

	// SDXLVersion is the model every campaign photograph is generated with
	SDXLVersion = "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"

	NegativePrompt = "low quality, blurry, distorted, amateur, unprofessional"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the prediction API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// OptionsFromEnv reads REPLICATE_API_TOKEN and REPLICATE_BASE_URL
func OptionsFromEnv() Options {
	token := os.Getenv("REPLICATE_API_TOKEN")
	if token == "" {
		slog.Warn("REPLICATE_API_TOKEN not set, using placeholder token")
		token = PlaceholderToken
	}
	return Options{
		BaseURL: os.Getenv("REPLICATE_BASE_URL"),
		Token:   token,
	}
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		token = PlaceholderToken
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      token,
	}
}

// Input is the SDXL parameter bundle. Only Prompt varies between entries.
type Input struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumOutputs        int     `json:"num_outputs"`
	Scheduler         string  `json:"scheduler"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	PromptStrength    float64 `json:"prompt_strength"`
	Refine            string  `json:"refine"`
	HighNoiseFrac     float64 `json:"high_noise_frac"`
}

// SDXLInput returns the fixed campaign parameters for prompt
func SDXLInput(prompt string) Input {
	return Input{
		Prompt:            prompt,
		NegativePrompt:    NegativePrompt,
		Width:             1024,
		Height:            1024,
		NumOutputs:        1,
		Scheduler:         "K_EULER",
		NumInferenceSteps: 50,
		GuidanceScale:     7.5,
		PromptStrength:    0.8,
		Refine:            "expert_ensemble_refiner",
		HighNoiseFrac:     0.8,
	}
}

type predictionRequest struct {
	Version string `json:"version"`
	Input   Input  `json:"input"`
}

// prediction is the wire shape. Output and error vary by model, so both are
// decoded loosely and normalized into a GenerationJob.
type prediction struct {
	ID     string           `json:"id"`
	Status models.JobStatus `json:"status"`
	Output json.RawMessage  `json:"output"`
	Error  json.RawMessage  `json:"error"`
}

func (p *prediction) job() *models.GenerationJob {
	job := &models.GenerationJob{ID: p.ID, Status: p.Status}

	if len(p.Output) > 0 {
		var list []string
		var single string
		if err := json.Unmarshal(p.Output, &list); err == nil {
			job.Output = list
		} else if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
			job.Output = []string{single}
		}
	}

	if len(p.Error) > 0 && string(p.Error) != "null" {
		var msg string
		if err := json.Unmarshal(p.Error, &msg); err == nil {
			job.Error = msg
		} else {
			job.Error = string(p.Error)
		}
	}
	return job
}

// CreatePrediction submits a generation job and returns it with its assigned ID
func (c *Client) CreatePrediction(ctx context.Context, version string, input Input) (*models.GenerationJob, error) {
	body, err := json.Marshal(predictionRequest{Version: version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	job, err := c.doPrediction(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start prediction: %w", err)
	}
	if job.ID == "" {
		return nil, fmt.Errorf("failed to start prediction: response has no id")
	}
	return job, nil
}

// GetPrediction fetches the current state of a job
func (c *Client) GetPrediction(ctx context.Context, id string) (*models.GenerationJob, error) {
	endpoint := c.baseURL + "/v1/predictions/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	job, err := c.doPrediction(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check prediction %s: %w", id, err)
	}
	return job, nil
}

func (c *Client) doPrediction(req *http.Request) (*models.GenerationJob, error) {
	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-2xx status code: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return p.job(), nil
}

// Download fetches a generated image. Output URLs are pre-signed, so no
// credential is attached.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}
