package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"profileorg/internal/config"
	"profileorg/internal/icc"
)

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	var setText string
	var fromName bool

	cmd := &cobra.Command{
		Use:   "describe <profile>",
		Short: "Read or rewrite a profile's embedded description",
		Long: `Print the desc tag of an ICC profile. With --set the description is
rewritten in place; the file keeps its size, so text that does not fit the
existing tag is truncated. --from-name sets the description to the filename
without its extension.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if fromName {
				base := filepath.Base(path)
				setText = strings.TrimSuffix(base, filepath.Ext(base))
			}
			if cmd.Flags().Changed("set") || fromName {
				if err := icc.PatchFile(path, setText); err != nil {
					return fmt.Errorf("update description: %w", err)
				}
			}
			desc, err := icc.ReadFileDescription(path)
			if err != nil {
				return fmt.Errorf("read description: %w", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]string{"path": path, "description": desc})
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			return nil
		},
	}

	cmd.Flags().StringVar(&setText, "set", "", "New description text")
	cmd.Flags().BoolVar(&fromName, "from-name", false, "Set the description to the filename stem")
	return cmd
}
