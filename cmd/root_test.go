package cmd

import (
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		name  string
		flags []string
	}{
		{name: "icons", flags: []string{"dir", "ico", "font", "manifest"}},
		{name: "photos", flags: []string{"dir", "campaign", "manifest", "poll-interval", "max-polls", "pace", "enhance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, _, err := root.Find([]string{tt.name})
			if err != nil || sub.Name() != tt.name {
				t.Fatalf("Expected %s subcommand, got %v (err=%v)", tt.name, sub, err)
			}
			for _, flag := range tt.flags {
				if sub.Flags().Lookup(flag) == nil {
					t.Errorf("Expected flag --%s on %s", flag, tt.name)
				}
			}
		})
	}

	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("Expected persistent --verbose flag")
	}
}

func TestNewEnhancer(t *testing.T) {
	tests := []struct {
		provider string
		wantNil  bool
		wantErr  bool
	}{
		{provider: "", wantNil: true},
		{provider: "gemini"},
		{provider: "openai"},
		{provider: "ollama"},
		{provider: "claude", wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			enhancer, err := newEnhancer(tt.provider)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newEnhancer(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
			if (enhancer == nil) != tt.wantNil {
				t.Errorf("newEnhancer(%q) = %v, wantNil %v", tt.provider, enhancer, tt.wantNil)
			}
		})
	}
}

func TestLoadManifestDefault(t *testing.T) {
	m, err := loadManifest("")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Icons) == 0 || len(m.Assets) == 0 {
		t.Errorf("Expected built-in icons and assets, got %d and %d", len(m.Icons), len(m.Assets))
	}
}
