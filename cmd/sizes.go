package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bodyfit-ai/bodyfit/internal/analysis"
	"github.com/bodyfit-ai/bodyfit/internal/content"
	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// sizeReport is what the sizes command prints
type sizeReport struct {
	Measurements models.Measurements `yaml:"measurements"`
	Sizes        []content.Garment   `yaml:"sizes,omitempty"`
	Brands       []content.Brand     `yaml:"brands"`
}

func newSizesCmd(opts *rootOptions) *cobra.Command {
	var (
		brand  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "Print the size recommendations",
		Long: `Prints the measurements produced by the simulated analysis together with
the recommended sizes per garment and per brand.`,
		Example: `  # Full chart
  bodyfit sizes

  # One brand as YAML
  bodyfit sizes --brand zara --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := content.Load(opts.cfg.ContentPath)
			if err != nil {
				return err
			}
			report, err := buildSizeReport(catalog, brand)
			if err != nil {
				return err
			}
			return writeSizeReport(cmd.OutOrStdout(), catalog, report, format)
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "Only show this brand")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text or yaml)")

	return cmd
}

func buildSizeReport(catalog *content.Catalog, brand string) (sizeReport, error) {
	report := sizeReport{Measurements: analysis.FixedMeasurements}
	if brand == "" {
		report.Sizes = catalog.Upload.SizeChart.Garments
		report.Brands = catalog.Upload.Brands.Items
		return report, nil
	}

	b, ok := catalog.FindBrand(brand)
	if !ok {
		names := make([]string, 0, len(catalog.Upload.Brands.Items))
		for _, item := range catalog.Upload.Brands.Items {
			names = append(names, item.Name)
		}
		return report, fmt.Errorf("unknown brand %q (available: %s)", brand, strings.Join(names, ", "))
	}
	report.Brands = []content.Brand{b}
	return report, nil
}

func writeSizeReport(w io.Writer, catalog *content.Catalog, report sizeReport, format string) error {
	switch format {
	case "text":
		return printTextSizes(w, catalog, report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextSizes(w io.Writer, catalog *content.Catalog, report sizeReport) error {
	heading := color.New(color.Bold)
	recommended := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.Faint)

	m := report.Measurements
	heading.Fprintf(w, "Measurements (confidence %d%%)\n", m.Confidence)
	for _, row := range [][2]string{
		{"Height", m.Height},
		{"Chest", m.Chest},
		{"Waist", m.Waist},
		{"Hips", m.Hips},
		{"Shoulders", m.Shoulders},
		{"Body Type", m.BodyType},
	} {
		fmt.Fprintf(w, "  %-10s %s\n", row[0]+":", row[1])
	}

	if len(report.Sizes) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, catalog.Upload.SizeChart.Heading)
		for _, g := range report.Sizes {
			fmt.Fprintf(w, "  %-10s ", g.Name+":")
			writeSizes(w, g.Sizes, recommended, muted)
		}
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, catalog.Upload.Brands.Heading)
	for _, b := range report.Brands {
		fmt.Fprintf(w, "  %s\n", b.Name)
		for _, line := range b.Lines {
			fmt.Fprintf(w, "    %-14s ", line.Garment+":")
			writeSizes(w, line.Sizes, recommended, muted)
		}
	}
	return nil
}

func writeSizes(w io.Writer, sizes []content.Size, recommended, muted *color.Color) {
	for i, s := range sizes {
		if i > 0 {
			fmt.Fprint(w, " | ")
		}
		if s.Recommended {
			recommended.Fprintf(w, "%s ✓", s.Label)
		} else {
			muted.Fprint(w, s.Label)
		}
	}
	fmt.Fprintln(w)
}
