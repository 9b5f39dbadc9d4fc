package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bonktools/itemscan/internal/layout"
)

// layoutCmd represents the layout command.
var layoutCmd = &cobra.Command{
	Use:   "layout <WxH>",
	Short: "Show the inferred hotbar grid for a resolution",
	Long: `Print the resolution category, icon sizes and hotbar cell regions that
would be used for a screenshot of the given dimensions.

Examples:
  itemscan layout 1920x1080
  itemscan layout 1280x800`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		width, height, err := parseDimensions(args[0])
		if err != nil {
			return err
		}

		res := layout.Classify(float64(width), float64(height))
		sizes := layout.PickIconSizes(res.Category)
		cells := layout.GenerateGridRegions(float64(width), float64(height))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Resolution: %dx%d (%s, scale %.2f)\n", width, height, res.Category, res.Scale)
		fmt.Fprintf(out, "Icon sizes: small=%d medium=%d large=%d\n", sizes.Small(), sizes.Medium(), sizes.Large())
		fmt.Fprintf(out, "Hotbar cells: %d\n", len(cells))
		for _, c := range cells {
			count := layout.CountSubregion(c)
			fmt.Fprintf(out, "  %-8s x=%-5.0f y=%-5.0f w=%-4.0f h=%-4.0f count region %dx%d\n",
				c.Label, c.X, c.Y, c.Width, c.Height, int(count.Width), int(count.Height))
		}
		return nil
	},
}

func parseDimensions(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q (expected WxH, e.g. 1920x1080)", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("resolution %q must be positive", s)
	}
	return width, height, nil
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
