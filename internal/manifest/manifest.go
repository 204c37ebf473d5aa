package manifest

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/sentinel-care/brandkit/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Container describes the multi-resolution icon file
type Container struct {
	Path  string `yaml:"path"`
	Sizes []int  `yaml:"sizes"`
}

// Manifest holds the ordered icon and asset lists both jobs work through
type Manifest struct {
	Icons     []models.IconSpec  `yaml:"icons"`
	Container Container          `yaml:"container"`
	Assets    []models.AssetSpec `yaml:"assets"`
}

// Default returns the built-in manifest
func Default() *Manifest {
	m, err := parse(defaultsYAML)
	if err != nil {
		// defaults.yaml is compiled in; a parse failure is a build defect
		panic(fmt.Sprintf("manifest: invalid embedded defaults: %v", err))
	}
	return m
}

// LoadFile reads a YAML manifest. Sections missing from the file keep their defaults.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	override, err := parse(data)
	if err != nil {
		return nil, err
	}

	m := Default()
	if len(override.Icons) > 0 {
		m.Icons = override.Icons
	}
	if override.Container.Path != "" {
		m.Container.Path = override.Container.Path
	}
	if len(override.Container.Sizes) > 0 {
		m.Container.Sizes = override.Container.Sizes
	}
	if len(override.Assets) > 0 {
		m.Assets = override.Assets
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	for i := range m.Assets {
		m.Assets[i].Prompt = strings.TrimSpace(m.Assets[i].Prompt)
	}
	return &m, nil
}

// Validate rejects entries no job could process
func (m *Manifest) Validate() error {
	seen := make(map[string]bool)
	for i, icon := range m.Icons {
		if icon.Size <= 0 {
			return fmt.Errorf("icon %d: size must be positive, got %d", i, icon.Size)
		}
		if strings.TrimSpace(icon.Filename) == "" {
			return fmt.Errorf("icon %d: filename is required", i)
		}
		if seen[icon.Filename] {
			return fmt.Errorf("icon %d: duplicate filename %s", i, icon.Filename)
		}
		seen[icon.Filename] = true
	}
	for _, size := range m.Container.Sizes {
		if size <= 0 || size > 256 {
			return fmt.Errorf("container size %d out of range (1-256)", size)
		}
	}
	return ValidateAssets(m.Assets)
}

// ValidateAssets checks an asset list on its own
func ValidateAssets(assets []models.AssetSpec) error {
	seen := make(map[string]bool)
	for i, asset := range assets {
		if strings.TrimSpace(asset.Filename) == "" {
			return fmt.Errorf("asset %d: filename is required", i)
		}
		if strings.TrimSpace(asset.Prompt) == "" {
			return fmt.Errorf("asset %d (%s): prompt is required", i, asset.Filename)
		}
		if seen[asset.Filename] {
			return fmt.Errorf("asset %d: duplicate filename %s", i, asset.Filename)
		}
		seen[asset.Filename] = true
	}
	return nil
}

// LoadAssets loads a campaign asset list (YAML, JSONL or Parquet)
func LoadAssets(path string) ([]models.AssetSpec, error) {
	var (
		assets []models.AssetSpec
		err    error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		assets, err = loadYAML(path)
	case ".jsonl":
		assets, err = loadJSONL(path)
	case ".parquet":
		assets, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported campaign format: %s (supported: .yaml, .yml, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("campaign %s has no assets", path)
	}

	if err := ValidateAssets(assets); err != nil {
		return nil, err
	}
	slog.Debug("Loaded campaign", "path", path, "assets", len(assets))
	return assets, nil
}

// loadYAML reads only the assets section; a campaign never inherits the
// built-in list.
func loadYAML(path string) ([]models.AssetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign: %w", err)
	}
	m, err := parse(data)
	if err != nil {
		return nil, err
	}
	return m.Assets, nil
}

func loadJSONL(path string) ([]models.AssetSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open campaign file: %w", err)
	}
	defer file.Close()

	var assets []models.AssetSpec
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var asset models.AssetSpec
		if err := json.Unmarshal(line, &asset); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		assets = append(assets, asset)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading campaign: %w", err)
	}
	return assets, nil
}

func loadParquet(path string) ([]models.AssetSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.AssetSpec](pf)
	defer reader.Close()

	assets := make([]models.AssetSpec, 0, pf.NumRows())
	rows := make([]models.AssetSpec, 64)
	for {
		n, err := reader.Read(rows)
		assets = append(assets, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Read parquet campaign", "path", path, "rows", len(assets))
	return assets, nil
}
