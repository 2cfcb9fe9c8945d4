package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/icfuzz/icfuzz/pkg/icalc"
	"github.com/icfuzz/icfuzz/pkg/oracle"
)

func main() {
	root := &cobra.Command{
		Use:          "icfuzz",
		Short:        "Confluence fuzzing harness for the interaction calculus",
		SilenceUsage: true,
	}
	root.AddCommand(reduceCmd(), fuzzCmd(), genCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func reduceCmd() *cobra.Command {
	var stepBound, parallel int
	cmd := &cobra.Command{
		Use:   "reduce [file]",
		Short: "Explore every reduction order of a term and print one trace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			supply := icalc.NewSupply()
			term, err := icalc.Parse(input, supply)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			start := time.Now()
			res, err := oracle.Explore(cmd.Context(), term, oracle.Options{
				StepBound: stepBound,
				Parallel:  parallel,
				Supply:    supply,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if len(res.Traces) > 0 {
				fmt.Print(res.Traces[0].Render())
			}
			if len(res.Terminals) > 0 {
				fmt.Println(icalc.Render(res.Terminals[0]))
			}
			printStats(res, elapsed)

			if !res.AllConfluent {
				printCounterexample(res.Counterexample)
				return fmt.Errorf("confluence violation")
			}
			if res.Inconclusive {
				fmt.Fprintf(os.Stderr, "\nStep bound %d hit on some branch; result inconclusive.\n", stepBound)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&stepBound, "step-bound", 4096, "per-branch rewrite bound")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent branch walkers")
	return cmd
}

func fuzzCmd() *cobra.Command {
	var seeds, maxSize, stepBound, parallel int
	var startSeed int64
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Generate random terms and check confluence across all orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			violations := 0
			inconclusive := 0
			for i := 0; i < seeds; i++ {
				seed := startSeed + int64(i)
				term, err := icalc.Generate(seed, maxSize)
				if err != nil {
					return fmt.Errorf("seed %d: %w", seed, err)
				}
				res, err := oracle.Explore(cmd.Context(), term, oracle.Options{
					StepBound: stepBound,
					Parallel:  parallel,
				})
				if err != nil {
					return fmt.Errorf("seed %d: %w", seed, err)
				}
				switch {
				case !res.AllConfluent:
					violations++
					fmt.Printf("seed %d: VIOLATION on %s\n", seed, icalc.Render(term))
					printCounterexample(res.Counterexample)
				case res.Inconclusive:
					inconclusive++
					fmt.Printf("seed %d: inconclusive (step bound %d) on %s\n", seed, stepBound, icalc.Render(term))
				}
			}
			fmt.Fprintf(os.Stderr, "%d seeds: %d confluent, %d inconclusive, %d violations\n",
				seeds, seeds-violations-inconclusive, inconclusive, violations)
			if violations > 0 {
				return fmt.Errorf("%d confluence violations", violations)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&seeds, "seeds", 100, "number of seeds to try")
	cmd.Flags().Int64Var(&startSeed, "start-seed", 1, "first seed")
	cmd.Flags().IntVar(&maxSize, "max-size", 12, "maximum term size")
	cmd.Flags().IntVar(&stepBound, "step-bound", 256, "per-branch rewrite bound")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent branch walkers")
	return cmd
}

func genCmd() *cobra.Command {
	var maxSize int
	var seed int64
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Print the term a seed generates (round-trips through parse)",
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := icalc.Generate(seed, maxSize)
			if err != nil {
				return err
			}
			fmt.Println(icalc.Render(term))
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "generator seed")
	cmd.Flags().IntVar(&maxSize, "max-size", 12, "maximum term size")
	return cmd
}

func printCounterexample(ce *oracle.Counterexample) {
	fmt.Fprint(os.Stderr, "\nConfluence violation; divergent orders:\n")
	fmt.Fprint(os.Stderr, "--- order A ---\n")
	fmt.Fprint(os.Stderr, ce.A.Render())
	fmt.Fprint(os.Stderr, "--- order B ---\n")
	fmt.Fprint(os.Stderr, ce.B.Render())
}

func printStats(res oracle.Result, elapsed time.Duration) {
	s := res.Stats
	fmt.Fprintf(os.Stderr, "\nStats:\n")
	fmt.Fprintf(os.Stderr, "Time: %v\n", elapsed)
	fmt.Fprintf(os.Stderr, "Configurations: %d (%d deduplicated)\n", s.Configurations, s.Deduplicated)
	fmt.Fprintf(os.Stderr, "Total Rewrites: %d\n", s.TotalRewrites())

	fmt.Fprintf(os.Stderr, "\nBreakdown:\n")
	fmt.Fprintf(os.Stderr, "  APP-LAM:            %6d\n", s.AppLam)
	fmt.Fprintf(os.Stderr, "  APP-SUP:            %6d\n", s.AppSup)
	fmt.Fprintf(os.Stderr, "  DUP-LAM:            %6d\n", s.DupLam)
	fmt.Fprintf(os.Stderr, "  DUP-SUP-ANNIHILATE: %6d\n", s.DupSupAnnihilate)
	fmt.Fprintf(os.Stderr, "  DUP-SUP-COMMUTE:    %6d\n", s.DupSupCommute)
	fmt.Fprintf(os.Stderr, "  DUP-APP-COMMUTE:    %6d\n", s.DupAppCommute)
}
