package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output.Format != "mp3" || s.Output.Quality != "high" {
		t.Errorf("expected default output settings, got %+v", s.Output)
	}
	if s.Segments.MinLength != 5 || s.Segments.MaxLength != 60 {
		t.Errorf("expected default segment lengths, got %+v", s.Segments)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	s := Default()
	s.Server.URL = "https://clipdeck.example.com"
	s.Auth.Token = "tok-123"
	s.Output.Format = "flac"
	s.Segments.MinLength = 10

	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Server.URL != s.Server.URL {
		t.Errorf("expected %q, got %q", s.Server.URL, loaded.Server.URL)
	}
	if loaded.Auth.Token != "tok-123" {
		t.Errorf("expected token round trip, got %q", loaded.Auth.Token)
	}
	if loaded.Output.Format != "flac" {
		t.Errorf("expected flac, got %q", loaded.Output.Format)
	}
	if loaded.Segments.MinLength != 10 {
		t.Errorf("expected min length 10, got %v", loaded.Segments.MinLength)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	s := Default()
	s.Server.URL = "https://file.example.com"
	s.Auth.Token = "file-token"
	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	t.Setenv("CLIPDECK_SERVER", "https://env.example.com")
	t.Setenv("CLIPDECK_TOKEN", "env-token")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Server.URL != "https://env.example.com" {
		t.Errorf("env should override file, got %q", loaded.Server.URL)
	}
	if loaded.Auth.Token != "env-token" {
		t.Errorf("env should override file, got %q", loaded.Auth.Token)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not valid toml ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults valid", func(s *Settings) {}, ""},
		{"min above max", func(s *Settings) { s.Segments.MinLength = 90 }, "must be below max"},
		{"negative length", func(s *Settings) { s.Segments.MaxLength = -1 }, "negative"},
		{"bad format", func(s *Settings) { s.Output.Format = "aiff" }, "unknown output format"},
		{"bad quality", func(s *Settings) { s.Output.Quality = "ultra" }, "unknown output quality"},
		{"negative poll interval", func(s *Settings) { s.Server.PollInterval = -2 }, "poll interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
