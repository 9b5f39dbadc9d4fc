package cmd

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/bonktools/itemscan/internal/config"
	"github.com/bonktools/itemscan/internal/match"
	"github.com/bonktools/itemscan/internal/ocr"
	"github.com/bonktools/itemscan/internal/pipeline"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan <screenshot>",
	Short: "Detect inventory items in a screenshot",
	Long: `Analyze a game screenshot and report the items detected in it.

Template matching runs over the inferred hotbar grid while OCR reads any
on-screen item text; both results are fused into one detection list.

Examples:
  itemscan scan screenshot.png
  itemscan scan screenshot.png --format json --output results.json
  itemscan scan screenshot.png --overlay annotated.png --no-ocr`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be text or json)", format)
		}

		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		overlayPath := cfg.Output.OverlayPath
		if cmd.Flags().Changed("overlay") {
			overlayPath, _ = cmd.Flags().GetString("overlay")
		}
		noOCR, _ := cmd.Flags().GetBool("no-ocr")
		noAggregate, _ := cmd.Flags().GetBool("no-aggregate")

		img, err := imaging.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}

		p, err := buildPipeline(cfg, noOCR, noAggregate)
		if err != nil {
			return err
		}

		res, err := p.Analyze(cmd.Context(), img)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		if overlayPath != "" {
			overlay := pipeline.RenderOverlay(img, res.Detections,
				color.NRGBA{R: 0, G: 200, B: 0, A: 255},
				color.NRGBA{R: 255, G: 165, B: 0, A: 255})
			if err := imaging.Save(overlay, overlayPath); err != nil {
				return fmt.Errorf("failed to write overlay: %w", err)
			}
		}

		var out []byte
		if format == outputFormatJSON {
			out, err = res.ToJSON()
			if err != nil {
				return fmt.Errorf("failed to serialize result: %w", err)
			}
			out = append(out, '\n')
		} else {
			out = []byte(res.FormatText())
		}

		if outputFile != "" {
			return os.WriteFile(outputFile, out, 0o600)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// buildPipeline assembles a detection pipeline from the resolved configuration.
func buildPipeline(cfg *config.Config, noOCR, noAggregate bool) (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder().
		WithCatalogPath(cfg.CatalogPath).
		WithTemplatesDir(cfg.TemplatesDir).
		WithOCRTimeout(time.Duration(cfg.OCR.TimeoutSeconds) * time.Second).
		WithOCRRetries(cfg.OCR.MaxRetries).
		WithAggregation(cfg.Detection.Aggregate && !noAggregate)

	mc := match.DefaultConfig()
	if cfg.Detection.MinConfidence > 0 {
		mc.MinConfidence = cfg.Detection.MinConfidence
	}
	if cfg.Detection.NMSIoUThreshold > 0 {
		mc.NMSIoUThreshold = cfg.Detection.NMSIoUThreshold
	}
	b.WithMatcherConfig(mc)

	if cfg.OCR.Disabled || noOCR {
		b.WithRecognizer(nil)
	} else {
		t := ocr.NewTesseract()
		if cfg.OCR.Language != "" {
			t.Language = cfg.OCR.Language
		}
		b.WithRecognizer(t)
	}

	p, err := b.Build()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (set --catalog and --templates-dir or a config file)", err)
		}
		return nil, err
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	scanCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	scanCmd.Flags().String("overlay", "", "write an annotated copy of the screenshot to this path")
	scanCmd.Flags().Bool("no-ocr", false, "disable the text recognition path")
	scanCmd.Flags().Bool("no-aggregate", false, "report each detection instead of collapsing duplicates")
}
