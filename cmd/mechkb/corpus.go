package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mechbio/mechkb/statements"
)

func corpusCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage persisted corpus snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored corpus keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, closer, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()
			keys, err := store.Keys(ctx)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <key>",
		Short: "Print a stored corpus as a JSON statement list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, closer, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()
			stmts, _, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := statements.MarshalList(stmts)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a stored corpus snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, closer, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closer()
			return store.Delete(ctx, args[0])
		},
	})

	return cmd
}
