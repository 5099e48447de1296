package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	designextractor "github.com/hellenic-development/design-extractor"
	"github.com/hellenic-development/design-extractor/pkg/confidence"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = designextractor.Version

var (
	snapshotPath   string
	outputFile     string
	jsonFile       string
	configPath     string
	title          string
	dedupThreshold float64
	minConfidence  string
	watch          bool
	noSwatches     bool
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "design-extractor",
		Short: "Extract design tokens from a rendered web page",
		Long:  "A tool to reverse-engineer colors, typography, spacing, radii, shadows, breakpoints, components and frameworks from a captured web page",
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Page capture JSON file (required)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "DESIGN_SYSTEM.md", "Output markdown file")
	rootCmd.Flags().StringVarP(&jsonFile, "json", "j", "", "Also write the design system as JSON to this file")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML settings file (optional)")
	rootCmd.Flags().StringVar(&title, "title", "", "Markdown title (defaults to the page title)")
	rootCmd.Flags().Float64Var(&dedupThreshold, "dedup-threshold", 0, "CIEDE2000 distance under which colors merge (overrides config)")
	rootCmd.Flags().StringVar(&minConfidence, "min-confidence", "", "Lowest palette confidence: high, medium or low (overrides config)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run whenever the capture file changes")
	rootCmd.Flags().BoolVar(&noSwatches, "no-swatches", false, "Do not print color swatches")

	rootCmd.MarkFlagRequired("snapshot")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("design-extractor version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cyan := color.New(color.FgCyan)
	cyan.Println("\n🎨 Design System Extractor")
	cyan.Println("==========================")
	cyan.Println()

	opts := designextractor.Options{
		SnapshotPath:   snapshotPath,
		ConfigPath:     configPath,
		Title:          title,
		DedupThreshold: dedupThreshold,
		MinConfidence:  confidence.Level(minConfidence),
		Logger:         &cliLogger{},
	}

	if err := extractOnce(ctx, opts); err != nil {
		if !watch {
			return err
		}
		color.New(color.FgRed).Printf("Error: %v\n", err)
	}

	if !watch {
		return nil
	}
	return watchSnapshot(ctx, snapshotPath, func() {
		if err := extractOnce(ctx, opts); err != nil {
			color.New(color.FgRed).Printf("Error: %v\n", err)
		}
	})
}

func extractOnce(ctx context.Context, opts designextractor.Options) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	result, err := designextractor.Run(ctx, opts)
	if err != nil {
		return err
	}

	printSummary(result, !noSwatches)

	green.Printf("\n💾 Writing to %s... ", outputFile)
	if err := os.WriteFile(outputFile, []byte(result.Markdown), 0644); err != nil {
		red.Printf("✗\n")
		return fmt.Errorf("write markdown: %w", err)
	}
	green.Println("✓")

	if jsonFile != "" {
		green.Printf("💾 Writing to %s... ", jsonFile)
		if err := os.WriteFile(jsonFile, result.JSON, 0644); err != nil {
			red.Printf("✗\n")
			return fmt.Errorf("write json: %w", err)
		}
		green.Println("✓")
	}

	green.Printf("\n✨ Successfully extracted the design system to %s\n\n", outputFile)
	return nil
}

func printSummary(result *designextractor.Result, swatches bool) {
	ds := result.DesignSystem
	cyan := color.New(color.FgCyan)

	cyan.Println("\n📊 Extraction Summary:")
	fmt.Printf("  • Colors: %d semantic, %d palette\n", len(ds.Colors.Semantic), len(ds.Colors.Palette))
	if ds.Typography.Families.Body != "" {
		fmt.Printf("  • Font Family: %s\n", ds.Typography.Families.Body)
	}
	fmt.Printf("  • Text Styles: %d\n", len(ds.Typography.Styles))
	if ds.Spacing.BaseUnit != "" {
		fmt.Printf("  • Spacing: %s grid, %d steps\n", ds.Spacing.BaseUnit, len(ds.Spacing.Scale))
	}
	fmt.Printf("  • Border Radii: %d\n", len(ds.Radii.Scale))
	fmt.Printf("  • Shadows: %d\n", len(ds.Shadows.All))
	fmt.Printf("  • Breakpoints: %d (%s)\n", len(ds.Breakpoints.Breakpoints), ds.Breakpoints.Source)
	fmt.Printf("  • Components: %d button, %d input, %d link, %d badge variant(s)\n",
		len(ds.Components.Buttons), len(ds.Components.Inputs), len(ds.Components.Links), len(ds.Components.Badges))
	for _, fw := range ds.Frameworks.Frameworks {
		fmt.Printf("  • Framework: %s (%s)\n", fw.Name, fw.Confidence)
	}
	fmt.Printf("  • Overall Confidence: %s\n", ds.Metadata.OverallConfidence)

	if swatches {
		if s := renderSwatches(ds); s != "" {
			cyan.Println("\n🎨 Colors:")
			fmt.Print(s)
		}
	}
}

// cliLogger implements designextractor.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
