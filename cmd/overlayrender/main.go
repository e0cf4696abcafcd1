// Command overlayrender replays a recorded input script over a radiograph
// and writes the annotated PNG, and optionally the findings PDF.
package main

import (
	"flag"
	"fmt"
	"os"

	"xray-overlay/internal/app"
	"xray-overlay/internal/config"
)

func main() {
	imagePath := flag.String("image", "", "Path to radiograph (TIFF, PNG, or JPEG)")
	scriptPath := flag.String("script", "", "JSON array of input steps")
	outDir := flag.String("out", ".", "Output directory")
	mmPerPixel := flag.Float64("mm", 0, "Override mm per pixel")
	report := flag.Bool("pdf", false, "Also write the findings sheet")
	flag.Parse()

	if *imagePath == "" || *scriptPath == "" {
		fmt.Println("Usage: overlayrender -image <path> -script <steps.json> [-out dir] [-mm 0.2] [-pdf]")
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}
	cfg.ExportDir = *outDir
	if *mmPerPixel > 0 {
		cfg.MMPerPixel = *mmPerPixel
	}

	state := app.NewState(cfg)
	if err := state.LoadImage(*imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	w, h := state.ImageSize()
	fmt.Printf("Loaded %s: %dx%d pixels\n", *imagePath, w, h)
	fmt.Printf("Calibration: %.4f mm/px\n", float64(state.Calibration()))

	f, err := os.Open(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open script: %v\n", err)
		os.Exit(1)
	}
	steps, err := app.ReadScript(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := state.Replay(steps); err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	findings := state.Findings()
	fmt.Printf("\n%d measurements:\n", len(findings.Measurements))
	for _, row := range findings.Rows() {
		fmt.Printf("  %s\n", row)
	}
	if notes := findings.Notes(); len(notes) > 0 {
		fmt.Printf("\n%d notes:\n", len(notes))
		for _, n := range notes {
			fmt.Printf("  %s\n", n)
		}
	}

	path, err := state.Save()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", path)

	if *report {
		path, err := state.ExportReport()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}
