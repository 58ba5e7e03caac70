package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mechbio/mechkb/belief"
	"github.com/mechbio/mechkb/corpus"
	"github.com/mechbio/mechkb/statements"
)

func preassembleCmd(configPath, logLevel *string) *cobra.Command {
	var (
		output        string
		saveKey       string
		keepRelated   bool
		kind          string
		grounded      bool
		genesOnly     bool
		allowFamilies bool
		directOnly    bool
		sources       []string
		sourcePolicy  string
		beliefCutoff  float64
	)

	cmd := &cobra.Command{
		Use:   "preassemble <statements.json>",
		Short: "Run preassembly over a raw statement corpus",
		Long: `Preassemble deduplicates a raw statement corpus, computes the
refinement support graph, scores beliefs and applies the selected
filters. The result is written as a JSON statement list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}

			stmts, err := readStatements(args[0])
			if err != nil {
				return err
			}

			eng := belief.NewEngine(a.cfg.Belief.Priors)
			pipeline := corpus.NewPipeline(a.hierarchies, eng)
			graph := pipeline.RunPreassembly(stmts)

			if saveKey != "" {
				ctx := context.Background()
				store, closer, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer closer()
				if err := store.Save(ctx, saveKey, graph.Statements, graph.Edges()); err != nil {
					return err
				}
				slog.Info("Saved corpus snapshot", slog.String("key", saveKey))
			}

			result := graph.Statements
			if !keepRelated {
				result = corpus.FilterTopLevel(graph)
			}
			if kind != "" {
				result = corpus.FilterByKind(result, statements.Kind(kind))
			}
			if grounded {
				result = corpus.FilterGrounded(result)
			}
			if genesOnly {
				result = corpus.FilterGenesOnly(result, allowFamilies)
			}
			if directOnly {
				result = corpus.FilterDirect(result)
			}
			if len(sources) > 0 {
				result = corpus.FilterEvidenceSource(result, sources, corpus.SourcePolicy(sourcePolicy))
			}
			if beliefCutoff > 0 {
				result = corpus.FilterBelief(result, beliefCutoff)
			}

			data, err := statements.MarshalList(result)
			if err != nil {
				return err
			}
			if err := writeOutput(output, string(data)+"\n"); err != nil {
				return err
			}

			slog.Info("Preassembly complete",
				slog.Int("input", len(stmts)),
				slog.Int("output", len(result)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&saveKey, "save", "", "Persist the preassembled corpus under this key")
	cmd.Flags().BoolVar(&keepRelated, "keep-related", false, "Keep refined statements instead of top-level only")
	cmd.Flags().StringVar(&kind, "kind", "", "Keep only statements of this kind")
	cmd.Flags().BoolVar(&grounded, "grounded", false, "Keep only statements with fully grounded agents")
	cmd.Flags().BoolVar(&genesOnly, "genes-only", false, "Keep only statements whose agents are genes")
	cmd.Flags().BoolVar(&allowFamilies, "allow-families", false, "With --genes-only, also accept protein families")
	cmd.Flags().BoolVar(&directOnly, "direct-only", false, "Keep only statements with direct evidence")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Keep only statements with evidence from these sources")
	cmd.Flags().StringVar(&sourcePolicy, "source-policy", string(corpus.SourceAny), "Evidence source policy (any, all)")
	cmd.Flags().Float64Var(&beliefCutoff, "belief", 0, "Keep only statements with belief above this threshold")

	return cmd
}
