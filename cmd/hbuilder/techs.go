package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ec429/hbuilder/internal/research"
	"github.com/ec429/hbuilder/internal/tech"
)

func (a *app) techsCmd() *cobra.Command {
	var (
		unlock  []string
		numbers bool
	)
	cmd := &cobra.Command{
		Use:   "techs",
		Short: "List techs and the coefficients they add up to",
		Long: `Lists every tech in catalog order, marking the unlocked ones (*) and
those whose requirements are met (+). With --numbers the folded
coefficient table for the unlocked set is printed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			st := research.Apply(cat, nil)
			if len(unlock) > 0 {
				if st, err = unlockState(cat, unlock); err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, t := range cat.Techs {
				mark := " "
				switch {
				case st.Techs[t.Ident]:
					mark = "*"
				case research.HaveReqs(cat, st, t.Ident):
					mark = "+"
				}
				date := ""
				if t.Year != 0 {
					date = fmt.Sprintf("%d", t.Year)
					if t.Month != 0 {
						date += fmt.Sprintf("-%02d", t.Month)
					}
				}
				fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, t.Ident, date, t.Name, strings.Join(t.Requires, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if !numbers {
				return nil
			}
			fmt.Fprintln(a.out)
			block := tech.Block(-1)
			for _, f := range tech.Fields() {
				if f.Block != block {
					block = f.Block
					fmt.Fprintf(a.out, "\n[%s]\n", block)
				}
				if v := f.Get(&st.Numbers); v != 0 {
					fmt.Fprintf(a.out, "%s=%d ", f.Key, v)
				}
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&unlock, "unlock", nil, "Techs to unlock, in order")
	cmd.Flags().BoolVar(&numbers, "numbers", false, "Print the folded coefficient table")
	return cmd
}
