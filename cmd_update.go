package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/creativeprojects/go-selfupdate"
)

const releaseRepo = "clipdeck/clipdeck"

// runSelfUpdate replaces the running binary with the latest release.
func runSelfUpdate(current string) error {
	if current == "dev" {
		return fmt.Errorf("development builds cannot self-update; install a release build")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		latest *selfupdate.Release
		found  bool
		err    error
	)
	if spinErr := spinner.New().
		Title("Checking for updates...").
		Action(func() {
			latest, found, err = selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepo))
		}).
		Run(); spinErr != nil {
		return spinErr
	}
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current) {
		fmt.Printf("clipdeck %s is already the latest version\n", current)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	if spinErr := spinner.New().
		Title(fmt.Sprintf("Updating to %s...", latest.Version())).
		Action(func() {
			err = selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe)
		}).
		Run(); spinErr != nil {
		return spinErr
	}
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Updated to clipdeck %s\n", latest.Version())
	return nil
}
