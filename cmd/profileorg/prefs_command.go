package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"profileorg/internal/resolver"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and manage learned device choices",
		Long: `Inspect and manage learned device choices.

When a filename matches aliases of several printers, the chosen device is
remembered for that file and for every file with the same set of matched
aliases.

Commands:
  list     - List learned choices, rules first
  remove   - Remove an entry by number (see 'list') or by key
  clear    - Remove every learned choice`,
	}

	prefsCmd.AddCommand(newPrefsListCommand(ctx))
	prefsCmd.AddCommand(newPrefsRemoveCommand(ctx))
	prefsCmd.AddCommand(newPrefsClearCommand(ctx))

	return prefsCmd
}

func newPrefsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learned choices",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := openPreferences(cmd, ctx)
			if err != nil {
				return err
			}
			entries := res.Preferences().Entries()

			if ctx.JSONMode() {
				if entries == nil {
					entries = []resolver.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Learned choices: none")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, e := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), e.Kind, e.Key, e.Device})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Kind", "Key", "Device"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}

func newPrefsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number|key>",
		Short: "Remove a learned choice",
		Long: `Remove a learned choice by its number from 'profileorg prefs list', or
by its key: a filename for file choices, a candidate key such as
"P7570-P9570" for rules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			release, err := acquireLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			res, err := openPreferences(cmd, ctx)
			if err != nil {
				return err
			}
			key := strings.TrimSpace(args[0])
			if n, convErr := strconv.Atoi(key); convErr == nil {
				entries := res.Preferences().Entries()
				if n < 1 || n > len(entries) {
					return fmt.Errorf("entry %d out of range (%d entries)", n, len(entries))
				}
				key = entries[n-1].Key
			}
			removed, err := res.Forget(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no learned choice for %q", key)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": true, "key": key})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed learned choice %q\n", key)
			return nil
		},
	}
}

func newPrefsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every learned choice",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			release, err := acquireLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			res, err := openPreferences(cmd, ctx)
			if err != nil {
				return err
			}
			count := len(res.Preferences().Entries())
			if count == 0 {
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": 0})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No learned choices to remove")
				return nil
			}
			if err := res.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear preferences: %w", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": count})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d learned choice(s)\n", count)
			return nil
		},
	}
}

func openPreferences(cmd *cobra.Command, ctx *commandContext) (*resolver.Resolver, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	runCtx, logger, err := ctx.newLogger(cmd.Context(), cfg, "prefs")
	if err != nil {
		return nil, err
	}
	return resolver.New(runCtx, ctx.preferenceStore(cfg, logger), nil, resolver.WithLogger(logger))
}
