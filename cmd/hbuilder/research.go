package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/research"
)

func (a *app) researchCmd() *cobra.Command {
	var (
		once   bool
		trials int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Simulate the research timeline",
		Long: `Simulates when each tech is researched, one tech per month at most.
By default runs many trials and prints, per tech, the mean and spread of
the month it arrives in. With --once prints a single timeline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("trials") {
				trials = a.cfg.Trials
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}
			rng := research.DefaultRNG()
			if seed != 0 {
				rng = research.NewSeededRNG(seed)
			}
			p := a.cfg.Timeline

			if once {
				tl := research.Simulate(cat, p, rng)
				fmt.Fprintf(a.out, "Known at start: %v\n", tl.Start)
				for _, ev := range tl.Events {
					t, _ := cat.Tech(ev.Tech)
					fmt.Fprintf(a.out, "%d-%02d  %s  %s\n", ev.Year, ev.Month, ev.Tech, t.Name)
				}
				if len(tl.Unresearched) > 0 {
					fmt.Fprintf(a.out, "Never researched: %v\n", tl.Unresearched)
				}
				return nil
			}

			a.logger.Info("running research simulation", zap.Int("trials", trials), zap.Uint64("seed", seed))
			stats := research.RunMonteCarlo(cat, p, trials, rng)
			ids := make([]string, 0, len(stats))
			for id := range stats {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool {
				si, sj := stats[ids[i]], stats[ids[j]]
				if si.Mean != sj.Mean {
					return si.Mean < sj.Mean
				}
				return ids[i] < ids[j]
			})
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "tech\tmean\tsd\tp50\tp90\tnever\t")
			for _, id := range ids {
				s := stats[id]
				fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.0f\t%.0f\t%.0f%%\t\n", id, s.Mean, s.StdDev, s.P50, s.P90, s.Never*100)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Print one simulated timeline")
	cmd.Flags().IntVar(&trials, "trials", 1000, "Monte Carlo trials (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "RNG seed, 0 for a random run (default from config)")
	return cmd
}
