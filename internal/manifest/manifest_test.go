package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/sentinel-care/brandkit/internal/models"
)

func TestDefault(t *testing.T) {
	m := Default()

	wantIcons := []models.IconSpec{
		{Size: 16, Filename: "favicon-16x16.png"},
		{Size: 32, Filename: "favicon-32x32.png"},
		{Size: 180, Filename: "apple-touch-icon.png"},
		{Size: 192, Filename: "icon-192.png"},
		{Size: 512, Filename: "icon-512.png"},
	}
	if !reflect.DeepEqual(m.Icons, wantIcons) {
		t.Errorf("Expected icons %v, got %v", wantIcons, m.Icons)
	}

	if m.Container.Path != "favicon.ico" {
		t.Errorf("Expected container path favicon.ico, got %s", m.Container.Path)
	}
	if !reflect.DeepEqual(m.Container.Sizes, []int{16, 32, 48}) {
		t.Errorf("Expected container sizes [16 32 48], got %v", m.Container.Sizes)
	}

	if len(m.Assets) != 8 {
		t.Fatalf("Expected 8 assets, got %d", len(m.Assets))
	}
	if m.Assets[0].Filename != "surgeon1.jpg" {
		t.Errorf("Expected first asset surgeon1.jpg, got %s", m.Assets[0].Filename)
	}
	if !strings.HasPrefix(m.Assets[0].Prompt, "Professional headshot portrait") {
		t.Errorf("Unexpected first prompt: %s", m.Assets[0].Prompt)
	}
	if strings.Contains(m.Assets[0].Prompt, "\n") {
		t.Errorf("Prompt should be folded onto one line: %q", m.Assets[0].Prompt)
	}

	if err := m.Validate(); err != nil {
		t.Errorf("Default manifest should validate: %v", err)
	}
}

func TestLoadFileKeepsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.yaml")
	content := `icons:
  - size: 16
    filename: a.png
  - size: 180
    filename: b.png
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(m.Icons) != 2 || m.Icons[1].Filename != "b.png" {
		t.Errorf("Expected overridden icons, got %v", m.Icons)
	}
	if len(m.Assets) != 8 {
		t.Errorf("Expected default assets to be kept, got %d", len(m.Assets))
	}
	if m.Container.Path != "favicon.ico" {
		t.Errorf("Expected default container, got %v", m.Container)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr string
	}{
		{
			name:    "zero icon size",
			m:       Manifest{Icons: []models.IconSpec{{Size: 0, Filename: "a.png"}}},
			wantErr: "size must be positive",
		},
		{
			name:    "missing icon filename",
			m:       Manifest{Icons: []models.IconSpec{{Size: 16}}},
			wantErr: "filename is required",
		},
		{
			name:    "duplicate icon filename",
			m:       Manifest{Icons: []models.IconSpec{{Size: 16, Filename: "a.png"}, {Size: 32, Filename: "a.png"}}},
			wantErr: "duplicate filename",
		},
		{
			name:    "container frame too large",
			m:       Manifest{Container: Container{Sizes: []int{16, 512}}},
			wantErr: "out of range",
		},
		{
			name:    "empty prompt",
			m:       Manifest{Assets: []models.AssetSpec{{Filename: "x.jpg", Prompt: "  "}}},
			wantErr: "prompt is required",
		},
		{
			name: "valid",
			m: Manifest{
				Icons:  []models.IconSpec{{Size: 16, Filename: "a.png"}},
				Assets: []models.AssetSpec{{Filename: "x.jpg", Prompt: "a lighthouse"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadAssets(t *testing.T) {
	want := []models.AssetSpec{
		{Filename: "one.jpg", Prompt: "first prompt"},
		{Filename: "two.jpg", Prompt: "second prompt"},
	}
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "campaign.yaml")
	yamlContent := `assets:
  - filename: one.jpg
    prompt: first prompt
  - filename: two.jpg
    prompt: second prompt
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	jsonlPath := filepath.Join(dir, "campaign.jsonl")
	jsonlContent := `{"filename":"one.jpg","prompt":"first prompt"}

{"filename":"two.jpg","prompt":"second prompt"}
`
	if err := os.WriteFile(jsonlPath, []byte(jsonlContent), 0644); err != nil {
		t.Fatal(err)
	}

	parquetPath := filepath.Join(dir, "campaign.parquet")
	if err := parquet.WriteFile(parquetPath, want); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, jsonlPath, parquetPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, err := LoadAssets(path)
			if err != nil {
				t.Fatalf("LoadAssets failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}
}

func TestLoadAssetsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadAssets(filepath.Join(dir, "campaign.csv")); err == nil {
		t.Error("Expected error for unsupported extension")
	}

	bad := filepath.Join(dir, "bad.jsonl")
	if err := os.WriteFile(bad, []byte("{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAssets(bad); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Expected parse error at line 1, got %v", err)
	}

	if _, err := LoadAssets(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadAssetsDoesNotInheritDefaults(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "misspelled assets key",
			file: "typo.yaml",
			content: `asset:
  - filename: hero.jpg
    prompt: a hospital corridor at dawn
`,
		},
		{
			name:    "icons only",
			file:    "icons.yml",
			content: "icons:\n  - size: 16\n    filename: f.png\n",
		},
		{
			name:    "empty jsonl",
			file:    "empty.jsonl",
			content: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			assets, err := LoadAssets(path)
			if err == nil || !strings.Contains(err.Error(), "no assets") {
				t.Errorf("Expected no assets error, got %v (%d assets)", err, len(assets))
			}
		})
	}
}
