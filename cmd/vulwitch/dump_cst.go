package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vulwitch/internal/cst"
	"vulwitch/internal/cst/tsc"
	"vulwitch/internal/source"
)

func newDumpCSTCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump-cst <files...>",
		Short: "Print the raw tree-sitter CST of C files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := tsc.NewParser()
			defer parser.Close()

			fileSet := source.NewFileSet()
			out := cmd.OutOrStdout()
			for i, path := range args {
				id, err := fileSet.Load(path)
				if err != nil {
					return fmt.Errorf("failed to load %q: %w", path, err)
				}
				tree, err := parser.Parse(cmd.Context(), fileSet.Get(id).Content)
				if err != nil {
					return fmt.Errorf("failed to parse %q: %w", path, err)
				}
				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "== %s ==\n", path)
				}
				err = cst.Dump(out, tree)
				tree.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
