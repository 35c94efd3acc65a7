package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"clipdeck/api"
	"clipdeck/config"
	"clipdeck/tui"
)

// Build info - set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	shortVersionFlag := flag.Bool("v", false, "Print version information (short)")
	updateFlag := flag.Bool("update", false, "Update clipdeck to the latest release")
	serverFlag := flag.String("server", "", "ClipDeck server URL (overrides config and env)")
	debugFlag := flag.Bool("debug", false, "Log HTTP requests")
	flag.Parse()

	if *versionFlag || *shortVersionFlag {
		fmt.Printf("clipdeck %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		fmt.Printf("  go:     %s\n", runtime.Version())
		fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	if *updateFlag {
		if err := runSelfUpdate(version); err != nil {
			fmt.Println(errorStyle.Render("Update failed: " + err.Error()))
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load .env file if it exists (won't error if missing)
	_ = godotenv.Load()

	fmt.Println(tui.GetHeader())

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}
	if *serverFlag != "" {
		cfg.Server.URL = *serverFlag
	}
	if cfg.Server.URL == "" {
		fmt.Println(errorStyle.Render("Error: no server configured"))
		fmt.Println(infoStyle.Render(config.SetupHelp()))
		os.Exit(1)
	}

	client, err := newAPIClient(cfg, *debugFlag)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}

	for {
		choice, err := mainMenu()
		if err != nil || choice == "quit" {
			break
		}

		switch choice {
		case "process":
			again, err := tui.RunWorkflowUI(client, cfg)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
			}
			if !again {
				fmt.Println(subtitleStyle.Render("\nThanks for using ClipDeck!"))
				return
			}
		case "settings":
			cfg, err = runSettingsForm(cfg)
			if err != nil {
				if err != huh.ErrUserAborted {
					fmt.Println(errorStyle.Render("Error: " + err.Error()))
				}
				continue
			}
			// Settings can change the server or timeout; rebuild the client.
			client, err = newAPIClient(cfg, *debugFlag)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
				return
			}
		}
	}

	fmt.Println(subtitleStyle.Render("\nThanks for using ClipDeck!"))
}

func newAPIClient(cfg config.Settings, debug bool) (*api.Client, error) {
	opts := []api.ClientOption{api.WithDebug(debug)}
	if cfg.Server.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.Server.RequestTimeout)*time.Second))
	}
	return api.NewClient(cfg.Server.URL, cfg.Auth.Token, opts...)
}

func mainMenu() (string, error) {
	var choice string
	menu := huh.NewSelect[string]().
		Title("What would you like to do?").
		Options(
			huh.NewOption("Process a media file", "process"),
			huh.NewOption("Settings", "settings"),
			huh.NewOption("Quit", "quit"),
		).
		Value(&choice)

	err := huh.NewForm(huh.NewGroup(menu)).
		WithTheme(huh.ThemeCatppuccin()).
		Run()
	if err != nil {
		return "", err
	}
	return choice, nil
}

// runSettingsForm edits and persists the configuration.
func runSettingsForm(cfg config.Settings) (config.Settings, error) {
	minLen := strconv.FormatFloat(cfg.Segments.MinLength, 'f', -1, 64)
	maxLen := strconv.FormatFloat(cfg.Segments.MaxLength, 'f', -1, 64)

	formatOptions := make([]huh.Option[string], len(config.OutputFormats))
	for i, f := range config.OutputFormats {
		formatOptions[i] = huh.NewOption(f, f)
	}
	qualityOptions := make([]huh.Option[string], len(config.OutputQualities))
	for i, q := range config.OutputQualities {
		qualityOptions[i] = huh.NewOption(q, q)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Value(&cfg.Server.URL),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Auth.Token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(formatOptions...).
				Value(&cfg.Output.Format),
			huh.NewSelect[string]().
				Title("Output quality").
				Options(qualityOptions...).
				Value(&cfg.Output.Quality),
			huh.NewInput().
				Title("Download directory").
				Value(&cfg.Output.Dir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Min segment length (seconds)").
				Validate(validateLength).
				Value(&minLen),
			huh.NewInput().
				Title("Max segment length (seconds)").
				Validate(validateLength).
				Value(&maxLen),
			huh.NewConfirm().
				Title("Preserve sentences when segmenting?").
				Value(&cfg.Segments.PreserveSentences),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return cfg, err
	}

	cfg.Segments.MinLength, _ = strconv.ParseFloat(minLen, 64)
	cfg.Segments.MaxLength, _ = strconv.ParseFloat(maxLen, 64)

	path, err := config.DefaultPath()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Save(path); err != nil {
		return cfg, err
	}
	fmt.Println(infoStyle.Render("Settings saved to " + path))
	return cfg, nil
}

func validateLength(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
