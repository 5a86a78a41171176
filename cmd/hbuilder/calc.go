package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/record"
	"github.com/ec429/hbuilder/internal/research"
	"github.com/ec429/hbuilder/internal/server"
)

func (a *app) calcCmd() *cobra.Command {
	var (
		parents []string
		unlock  []string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "calc FILE",
		Short: "Compute a design record",
		Long: `Loads a design record and prints its derived figures and diagnostics.

A refit needs its ancestors: pass each with --parent, oldest first.
Ancestors are recomputed on the tech snapshot saved in their records.
Without --unlock every tech in the catalog counts as researched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			st, err := unlockState(cat, unlock)
			if err != nil {
				return err
			}
			calc := bomber.NewCalculator(a.cfg.CalculatorOptions()...)

			var parent *bomber.Bomber
			for _, path := range parents {
				p, err := loadRecord(path, cat)
				if err != nil {
					return err
				}
				p.Parent = parent
				if err := calc.Replay(p, st.Numbers, st); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				parent = p
			}
			b, err := loadRecord(args[0], cat)
			if err != nil {
				return err
			}
			b.Parent = parent
			if err := calc.Calculate(b, st.Numbers, st); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.logger.Debug("calculated design", zap.String("file", args[0]), zap.Bool("has_error", b.HasError))

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(server.NewResult(b))
			}
			return printSummary(a.out, b)
		},
	}
	cmd.Flags().StringSliceVar(&parents, "parent", nil, "Ancestor design record, oldest first (repeatable)")
	cmd.Flags().StringSliceVar(&unlock, "unlock", nil, "Researched techs (default: all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func loadRecord(path string, cat *catalog.Catalog) (*bomber.Bomber, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := record.Load(f, cat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// unlockState builds a research state from a list of techs, unlocking
// them in order so each one's requirements are checked.
func unlockState(cat *catalog.Catalog, idents []string) (research.State, error) {
	if len(idents) == 0 {
		all := make(map[string]bool, len(cat.Techs))
		for _, t := range cat.Techs {
			all[t.Ident] = true
		}
		return research.Apply(cat, all), nil
	}
	st := research.Apply(cat, nil)
	for _, id := range idents {
		if st.Techs[id] {
			continue
		}
		var err error
		if st, err = st.Toggle(cat, id); err != nil {
			return st, err
		}
	}
	return st, nil
}

func printSummary(w io.Writer, b *bomber.Bomber) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Refit", b.Refit.String()},
		{"Tare", fmt.Sprintf("%.0f lb", b.Tare)},
		{"Gross", fmt.Sprintf("%.0f lb (max %d)", b.Gross, b.MTOW)},
		{"Take-off speed", fmt.Sprintf("%.0f mph", b.TakeoffSpd)},
		{"Ceiling", fmt.Sprintf("%.1f kft", b.Ceiling)},
		{"Cruise", fmt.Sprintf("%.0f mph at %.1f kft", b.CruiseSpd, b.CruiseAlt)},
		{"Climb", fmt.Sprintf("%.0f ft/min", b.InitClimb)},
		{"Range", fmt.Sprintf("%.0f mi", b.Range)},
		{"Serviceability", fmt.Sprintf("%.1f%%", b.Serv*100)},
		{"Failure", fmt.Sprintf("%.1f%%", b.Fail)},
		{"Defence (day/night)", fmt.Sprintf("%.2f / %.2f", b.Defn[0], b.Defn[1])},
		{"Accuracy", fmt.Sprintf("%.3f", b.Accu)},
		{"Cost", fmt.Sprintf("£%.0f", b.Cost)},
		{"Development", fmt.Sprintf("%.0f days proto, %.0f days prod", b.TProto, b.TProd)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.label, r.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, d := range b.Diagnostics {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
	return nil
}
