// Package main provides the entry point for the X-ray Overlay application.
package main

import (
	"flag"
	"log"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"xray-overlay/internal/app"
	"xray-overlay/internal/config"
	"xray-overlay/internal/version"
	"xray-overlay/ui/mainwindow"
	"xray-overlay/ui/prefs"
)

const (
	appID    = "io.github.xray-overlay"
	appTitle = "X-ray Overlay"
)

func main() {
	imagePath := flag.String("image", "", "Radiograph to open (PNG, JPEG or TIFF)")
	envFile := flag.String("env", ".env", "File of KEY=value overrides")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s %s", appTitle, version.String())

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Printf("Ignoring %s: %v", *envFile, err)
	}

	appPrefs := prefs.Load()
	cfg, err := config.Load(appPrefs)
	if err != nil {
		log.Printf("Invalid settings, using defaults: %v", err)
		cfg = config.Default()
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appState := app.NewState(cfg)
	win := mainwindow.New(fyneApp, appState, appPrefs)

	path := *imagePath
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path != "" {
		if err := win.OpenImage(path); err != nil {
			log.Printf("Failed to load image %s: %v", path, err)
		}
	} else {
		win.RestoreLastImage()
	}

	setupHotReload(win)

	win.SetCloseIntercept(func() {
		win.SavePreferences()
		win.Close()
	})
	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dlg := dialog.NewConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
		dlg.Resize(fyne.NewSize(360, 160))
		dlg.Show()
	})

	reloader.Start()
}
