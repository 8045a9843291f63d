package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/closurelabs/ecoscan/internal/app"
	"github.com/closurelabs/ecoscan/internal/config"
	"github.com/closurelabs/ecoscan/internal/domain"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	root := &cobra.Command{
		Use:           "ecoscan",
		Short:         "Scan product barcodes for environmental and nutrition insights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(scanCmd(), historyCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		zlog.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, config.Load())
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <barcode>",
		Short: "Resolve one barcode and record it in the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			barcode := strings.TrimSpace(args[0])
			if !validBarcode(barcode) {
				return fmt.Errorf("%q is not a valid EAN-8, EAN-13 or UPC barcode", barcode)
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.Scanner.Scan(cmd.Context(), barcode)
			if err != nil {
				fmt.Printf("%s\nScanned Barcode: %s\n", a.Scanner.ErrMessage(), a.Scanner.Barcode())
				return err
			}
			printRecord(rec)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List scanned products, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			records := a.History.Records()
			if len(records) == 0 {
				fmt.Println("No scans yet.")
				return nil
			}
			for i, rec := range records {
				impact := rec.Impact()
				fmt.Printf("%2d. %-13s  %-30s  %s  %s\n",
					i+1, rec.Barcode, rec.Name, rec.CarbonDisplay(), impact.Level().Description())
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the whole scan history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			a.History.Clear(cmd.Context())
			fmt.Println("History cleared.")
			return nil
		},
	})
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path.xlsx>",
		Short: "Export the scan history to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Exporter.ToXLSX(args[0]); err != nil {
				return err
			}
			fmt.Printf("Exported %d records to %s\n", a.History.Len(), args[0])
			return nil
		},
	}
}

func printRecord(rec *domain.ProductRecord) {
	impact := rec.Impact()
	fmt.Printf("Name:             %s\n", rec.Name)
	fmt.Printf("Barcode:          %s\n", rec.Barcode)
	fmt.Printf("Packaging:        %s\n", rec.Packaging)
	if len(rec.PackagingTags) > 0 {
		fmt.Printf("Packaging tags:   %s\n", strings.Join(rec.PackagingTags, ", "))
	}
	if rec.EcoGrade != "" {
		fmt.Printf("Eco grade:        %s (%s)\n", rec.EcoGrade, rec.EcoGrade.Description())
	}
	fmt.Printf("Carbon footprint: %s\n", rec.CarbonDisplay())
	fmt.Printf("Impact score:     %.1f/10 (%s)\n", impact.Score, impact.Level().Description())
	if len(rec.Allergens) > 0 {
		fmt.Printf("Allergens:        %s\n", strings.Join(rec.Allergens, ", "))
		if hits := domain.MatchAllergens(rec.Ingredients, rec.Allergens); len(hits) > 0 {
			fmt.Printf("In ingredients:   %s\n", strings.Join(hits, ", "))
		}
	}
	if n := rec.Nutrition; n != nil {
		fmt.Println("Nutrition per 100g:")
		printFact("Calories", n.Calories, "kcal")
		printFact("Fat", n.Fat, "g")
		printFact("Protein", n.Protein, "g")
		printFact("Carbohydrate", n.Carbohydrate, "g")
		printFact("Sugar", n.Sugar, "g")
	}
}

func printFact(label string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Printf("  %-14s %.1f %s\n", label+":", *v, unit)
}

// validBarcode accepts the numeric symbologies the scanner produces:
// EAN-8, EAN-13, UPC-A and UPC-E.
func validBarcode(s string) bool {
	if len(s) < 6 || len(s) > 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
