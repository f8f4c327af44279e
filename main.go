// Package main provides the entry point for the Scan Cleaner application.
package main

import (
	"os"

	"scan-cleaner/internal/app"
	"scan-cleaner/internal/version"
	"scan-cleaner/ui/mainwindow"
	"scan-cleaner/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	log.Info().
		Str("version", version.Version).
		Str("commit", version.GitCommit).
		Msg("starting scan-cleaner")

	fyneApp := fyneapp.NewWithID("scan-cleaner")
	fyneApp.Settings().SetTheme(&app.ScanCleanerTheme{})

	appState := app.NewState(log)
	appPrefs := prefs.Load()
	appState.SetParams(appPrefs.Params())

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// A project file on the command line takes precedence over the
	// previously opened image.
	if len(os.Args) > 1 {
		if err := appState.LoadProject(os.Args[1]); err != nil {
			log.Error().Err(err).Str("path", os.Args[1]).Msg("failed to load project")
		}
	} else {
		win.RestoreLastImage()
	}

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save preferences")
	}
}
