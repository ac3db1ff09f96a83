package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/format"
)

// newCacheCmd creates the parent "cache" command.
func newCacheCmd(opts Options, sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persisted session cache",
	}
	cmd.AddCommand(newCacheShowCmd(opts, sess), newCacheClearCmd(opts, sess))
	return cmd
}

// newCacheShowCmd creates the "cache show" subcommand.
func newCacheShowCmd(opts Options, sess *session) *cobra.Command {
	var columnSpec string

	cmd := &cobra.Command{
		Use:   "show [entity-key]",
		Short: "List cached entities, or show one entity's fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess.snapshots == nil {
				fmt.Fprintln(opts.Stdout, "Cache is disabled.")
				return nil
			}
			snap, ok, err := sess.snapshots.Load(sessionSnapshot)
			if err != nil {
				return fmt.Errorf("loading cache: %w", err)
			}
			if !ok || len(snap) == 0 {
				fmt.Fprintln(opts.Stdout, "Cache is empty.")
				return nil
			}
			color := format.ColorEnabled(opts.Stdout)

			if len(args) == 1 {
				fields, ok := snap[args[0]]
				if !ok {
					return fmt.Errorf("no cached entity %q", args[0])
				}
				out, err := format.FormatEntity(format.Entity{Key: args[0], Fields: fields}, color)
				if err != nil {
					return err
				}
				fmt.Fprint(opts.Stdout, out)
				return nil
			}

			columns := format.DefaultColumns
			if columnSpec != "" {
				if columns, err = format.ParseColumns(columnSpec); err != nil {
					return err
				}
			}
			fmt.Fprint(opts.Stdout, format.FormatEntityList(format.Entities(snap), columns, color))
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeEntityKeys(sess)
		},
	}

	cmd.Flags().StringVar(&columnSpec, "column", "", "Columns to show, e.g. key,refs or +refs:2")
	_ = cmd.RegisterFlagCompletionFunc("column", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return format.ColumnNames, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd(opts Options, sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess.snapshots == nil {
				fmt.Fprintln(opts.Stdout, "Cache is already empty.")
				return nil
			}
			n, err := sess.snapshots.Clear()
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(opts.Stdout, "Cache is already empty.")
				return nil
			}
			fmt.Fprintf(opts.Stdout, "Cleared %d cached snapshot(s).\n", n)
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}
}
