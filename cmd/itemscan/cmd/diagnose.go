package cmd

import (
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/bonktools/itemscan/internal/diagnostics"
	"github.com/bonktools/itemscan/internal/fusion"
)

// diagnoseCmd represents the diagnose command.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <screenshot>",
	Short: "Compare detections against a ground-truth item list",
	Long: `Analyze a screenshot, compare the detections against a ground-truth
item list and report false positives, false negatives and tuning hints.

The ground-truth file is YAML; entries are item names or name/count pairs:

  items:
    - wrench
    - name: medkit
      count: 2

Examples:
  itemscan diagnose screenshot.png --ground-truth expected.yaml
  itemscan diagnose screenshot.png -g expected.yaml --export report.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		gtPath, _ := cmd.Flags().GetString("ground-truth")
		if gtPath == "" {
			return errors.New("a ground-truth file is required (--ground-truth)")
		}
		exportPath, _ := cmd.Flags().GetString("export")
		noOCR, _ := cmd.Flags().GetBool("no-ocr")

		gt, err := diagnostics.LoadGroundTruth(gtPath)
		if err != nil {
			return fmt.Errorf("failed to load ground truth: %w", err)
		}

		img, err := imaging.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}

		p, err := buildPipeline(cfg, noOCR, false)
		if err != nil {
			return err
		}

		res, err := p.Analyze(cmd.Context(), img)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		aggregated := res.Aggregated
		if len(aggregated) == 0 {
			aggregated = fusion.Aggregate(res.Detections)
		}
		report := diagnostics.Analyze(diagnostics.FromAggregated(aggregated), gt.ExpectedNames())

		if exportPath != "" {
			if err := diagnostics.ExportJSON(report, exportPath); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), diagnostics.Format(report))
		return err
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	diagnoseCmd.Flags().StringP("ground-truth", "g", "", "YAML file listing the items expected in the screenshot")
	diagnoseCmd.Flags().String("export", "", "write the full diagnostic report as JSON to this path")
	diagnoseCmd.Flags().Bool("no-ocr", false, "disable the text recognition path")
}
