// Package main provides the mechkb binary entry point.
// Mechkb assembles mechanistic statement corpora into executable
// rule-based reaction-network models.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "mechkb"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "mechkb",
		Short: "Mechanistic knowledge assembly",
		Long: `Mechkb turns corpora of mechanistic statements into executable
rule-based reaction-network models.

It provides:
- Corpus preassembly (deduplication, refinement, belief scoring)
- Corpus filters (grounding, belief, source, statement kind)
- Policy-driven model compilation and export (BNGL, flat, JSON)

Corpus snapshots can be persisted in NATS JetStream between stages.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(preassembleCmd(&configPath, &logLevel))
	cmd.AddCommand(assembleCmd(&configPath, &logLevel))
	cmd.AddCommand(corpusCmd(&configPath, &logLevel))

	return cmd
}
