package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"profileorg/internal/config"
	"profileorg/internal/dedupe"
	"profileorg/internal/logging"
	"profileorg/internal/organizer"
)

type duplicateSetView struct {
	Hash       string   `json:"sha256"`
	Keeper     string   `json:"keeper"`
	Duplicates []string `json:"duplicates"`
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var exts []string

	cmd := &cobra.Command{
		Use:   "dedupe [dir]",
		Short: "List files with identical content",
		Long: `Hash files under a directory (the configured profiles directory by
default) and list each set of identical files. The first file in path order
is the one organize keeps. Nothing is deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.ProfilesDir
			if len(args) == 1 {
				if dir, err = config.ExpandPath(args[0]); err != nil {
					return err
				}
			}
			runCtx, logger, err := ctx.newLogger(cmd.Context(), cfg, "dedupe")
			if err != nil {
				return err
			}
			files, err := organizer.ScanFiles(dir, exts)
			if err != nil {
				return err
			}
			groups, errs := dedupe.GroupFiles(files)
			for _, err := range errs {
				logging.WarnWithContext(logging.WithContext(runCtx, logger), "file not hashed", "dedupe_hash_failed", logging.Error(err))
			}

			sets := []duplicateSetView{}
			for _, g := range groups.Order() {
				if len(g.Paths) < 2 {
					continue
				}
				sets = append(sets, duplicateSetView{Hash: g.Hash, Keeper: g.Keeper(), Duplicates: g.Duplicates()})
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, sets)
			}
			out := cmd.OutOrStdout()
			if len(sets) == 0 {
				fmt.Fprintf(out, "No duplicates among %d file(s)\n", len(files))
				return nil
			}
			fmt.Fprintf(out, "%d duplicate set(s) among %d file(s)\n\n", len(sets), len(files))
			for i, set := range sets {
				fmt.Fprintf(out, "  %d. keep %s\n", i+1, relativeTo(dir, set.Keeper))
				for _, dup := range set.Duplicates {
					fmt.Fprintf(out, "     duplicate %s\n", relativeTo(dir, dup))
				}
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d file(s) could not be hashed", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exts, "ext", []string{".pdf"}, "File extensions to compare")
	return cmd
}
