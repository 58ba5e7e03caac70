package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mechbio/mechkb/assembler"
	"github.com/mechbio/mechkb/export"
	"github.com/mechbio/mechkb/statements"
)

func assembleCmd(configPath, logLevel *string) *cobra.Command {
	var (
		loadKey          string
		output           string
		format           string
		policy           string
		modelName        string
		initialAmount    float64
		skipInitials     bool
		extendedInitials bool
	)

	cmd := &cobra.Command{
		Use:   "assemble [statements.json]",
		Short: "Compile a statement corpus into a reaction-network model",
		Long: `Assemble compiles a preassembled statement corpus into a
rule-based reaction-network model and exports it in the requested
format. Statements come from a JSON file or, with --load, from a
persisted corpus snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}

			var stmts []statements.Statement
			switch {
			case loadKey != "" && len(args) > 0:
				return fmt.Errorf("statements file and --load are mutually exclusive")
			case loadKey != "":
				ctx := context.Background()
				store, closer, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer closer()
				stmts, _, err = store.Load(ctx, loadKey)
				if err != nil {
					return err
				}
			case len(args) > 0:
				stmts, err = readStatements(args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("a statements file or --load is required")
			}

			opts := assembler.Options{
				Policies:         a.cfg.AssemblerPolicies(),
				InitialAmount:    a.cfg.Assembly.InitialAmount,
				SkipInitials:     skipInitials,
				ExtendedInitials: a.cfg.Assembly.ExtendedInitials,
				ModelName:        a.cfg.Assembly.ModelName,
			}
			if policy != "" {
				opts.Policies.Global = policy
			}
			if modelName != "" {
				opts.ModelName = modelName
			}
			if initialAmount > 0 {
				opts.InitialAmount = initialAmount
			}
			if extendedInitials {
				opts.ExtendedInitials = true
			}

			asm := assembler.New(a.hierarchies, opts)
			asm.AddStatements(stmts...)
			model, err := asm.MakeModel()
			if err != nil {
				return err
			}

			if _, ok := export.GetFormatInfo(export.Format(format)); !ok {
				return fmt.Errorf("unknown export format: %s", format)
			}
			content, err := export.New(model).Export(export.Format(format))
			if err != nil {
				return err
			}
			if err := writeOutput(output, content); err != nil {
				return err
			}

			slog.Info("Model assembled",
				slog.String("model", opts.ModelName),
				slog.Int("statements", len(stmts)),
				slog.String("format", format))
			return nil
		},
	}

	cmd.Flags().StringVar(&loadKey, "load", "", "Load the corpus from this persisted snapshot key")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatBNGL), "Export format (bngl, flat, json)")
	cmd.Flags().StringVar(&policy, "policy", "", "Global assembly policy override")
	cmd.Flags().StringVar(&modelName, "model-name", "", "Model name override")
	cmd.Flags().Float64Var(&initialAmount, "initial-amount", 0, "Default ground-state copy number override")
	cmd.Flags().BoolVar(&skipInitials, "skip-initials", false, "Do not generate initial conditions")
	cmd.Flags().BoolVar(&extendedInitials, "extended-initials", false, "Also seed fully modified monomer states")

	return cmd
}
