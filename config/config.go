// Package config loads and saves the settings that survive a console
// restart: server connection, auth token, output preferences and
// segmentation rules. Task, segment and selection state is deliberately
// never persisted; it is rebuilt from the server each session.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// OutputFormats lists the accepted split output formats.
var OutputFormats = []string{"mp3", "wav", "flac", "m4a"}

// OutputQualities lists the accepted split output qualities.
var OutputQualities = []string{"low", "medium", "high"}

// Server contains connection settings for the ClipDeck service.
type Server struct {
	URL string `toml:"url"`

	// RequestTimeout is the HTTP timeout in seconds; 0 uses the client default.
	RequestTimeout int `toml:"request_timeout"`

	// PollInterval is the status poll interval in seconds.
	PollInterval int `toml:"poll_interval"`
}

// Auth contains the persisted credentials.
type Auth struct {
	Token string `toml:"token"`
	User  string `toml:"user"`
}

// Output contains split output preferences.
type Output struct {
	Format  string `toml:"format"`
	Quality string `toml:"quality"`

	// Dir is where downloaded output files are written.
	Dir string `toml:"dir"`
}

// Segments contains analysis segmentation rules.
type Segments struct {
	// MinLength is the minimum segment duration in seconds.
	MinLength float64 `toml:"min_length"`

	// MaxLength is the maximum segment duration in seconds.
	MaxLength float64 `toml:"max_length"`

	// PreserveSentences avoids cutting segments mid-sentence.
	PreserveSentences bool `toml:"preserve_sentences"`
}

// Settings is the full persisted configuration.
type Settings struct {
	Server   Server   `toml:"server"`
	Auth     Auth     `toml:"auth"`
	Output   Output   `toml:"output"`
	Segments Segments `toml:"segments"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Server: Server{
			PollInterval: 2,
		},
		Output: Output{
			Format:  "mp3",
			Quality: "high",
			Dir:     "./downloads",
		},
		Segments: Segments{
			MinLength:         5,
			MaxLength:         60,
			PreserveSentences: true,
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "clipdeck", "config.toml"), nil
}

// Load reads settings from path, starting from defaults. A missing file is
// not an error. Environment variables CLIPDECK_SERVER and CLIPDECK_TOKEN
// override the file.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run; defaults plus env.
	case err != nil:
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("CLIPDECK_SERVER"); v != "" {
		s.Server.URL = v
	}
	if v := os.Getenv("CLIPDECK_TOKEN"); v != "" {
		s.Auth.Token = v
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// LoadDefault loads from the default path.
func LoadDefault() (Settings, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	return Load(path)
}

// Save writes settings to path, creating parent directories as needed.
func (s Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if s.Segments.MinLength < 0 || s.Segments.MaxLength < 0 {
		return fmt.Errorf("segment lengths must not be negative")
	}
	if s.Segments.MinLength > 0 && s.Segments.MaxLength > 0 && s.Segments.MinLength >= s.Segments.MaxLength {
		return fmt.Errorf("min segment length %.1f must be below max %.1f", s.Segments.MinLength, s.Segments.MaxLength)
	}
	if s.Output.Format != "" && !contains(OutputFormats, s.Output.Format) {
		return fmt.Errorf("unknown output format %q", s.Output.Format)
	}
	if s.Output.Quality != "" && !contains(OutputQualities, s.Output.Quality) {
		return fmt.Errorf("unknown output quality %q", s.Output.Quality)
	}
	if s.Server.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative")
	}
	return nil
}

// SetupHelp returns instructions shown when no server is configured.
func SetupHelp() string {
	return `To use ClipDeck, point it at your transcription service.

Set the environment variable:

   export CLIPDECK_SERVER="https://clipdeck.example.com"
   export CLIPDECK_TOKEN="your-api-token"

Or create a .env file with:
   CLIPDECK_SERVER=https://clipdeck.example.com
   CLIPDECK_TOKEN=your-api-token

Or edit the [server] and [auth] sections of the config file.`
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
