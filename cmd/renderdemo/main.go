package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cvbot-backend/resume/model"
	"cvbot-backend/resume/render"
)

func main() {
	outDir := flag.String("out", "./out", "directory for generated PDFs")
	color := flag.String("color", "", "color scheme applied to every variant (blue, green, red, purple, orange, navy)")
	flag.Parse()

	if *color != "" && !render.IsColor(*color) {
		fmt.Fprintf(os.Stderr, "unknown color %q\n", *color)
		os.Exit(2)
	}

	profile := sampleProfile()
	profile.ColorScheme = *color

	written, err := renderAll(context.Background(), render.NewRenderer(), profile, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("OK: wrote %s\n", path)
	}
}

// renderAll draws profile with every registered variant and checks each artifact reads back.
func renderAll(ctx context.Context, r *render.Renderer, profile model.Profile, outDir string) ([]string, error) {
	if err := writeProfile(outDir, profile); err != nil {
		return nil, err
	}
	var written []string
	for _, key := range r.Keys() {
		name := key
		if profile.ColorScheme != "" {
			name += "_" + profile.ColorScheme
		}
		path := filepath.Join(outDir, name+".pdf")
		if err := r.RenderFile(ctx, render.Descriptor{Key: key}, profile, path); err != nil {
			return written, err
		}
		if err := validateRendered(path); err != nil {
			return written, fmt.Errorf("%s: %w", key, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeProfile(dir string, profile model.Profile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "sample_profile.json"), payload, 0o644)
}

func validateRendered(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := render.Inspect(data)
	if err != nil {
		return err
	}
	if info.Pages < 1 {
		return fmt.Errorf("no pages")
	}
	return nil
}

func sampleProfile() model.Profile {
	return model.Profile{
		FullName: "Tendai Moyo",
		Email:    "tendai.moyo@example.com",
		Phone:    "+263 77 123 4567",
		Address:  "12 Samora Machel Ave, Harare",
		Summary:  "Operations analyst with six years of experience improving logistics and reporting for regional distributors.",
		Experience: []string{
			"Operations Analyst at Zimbabwe Freight Services\n2021 - Present\nBuilt weekly fleet utilisation reports and cut idle time by 15%.",
			"Junior Analyst at Harare Wholesale\n2018 - 2021\nAutomated stock reconciliation across four depots.",
		},
		Education: []string{
			"BSc Economics, University of Zimbabwe\n2014 - 2017",
		},
		Skills: []string{"Excel", "SQL", "Power BI", "Logistics planning", "Stakeholder reporting"},
	}
}
