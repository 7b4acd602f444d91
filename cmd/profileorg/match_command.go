package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"profileorg/internal/matcher"
	"profileorg/internal/resolver"
)

type matchView struct {
	File       string   `json:"file"`
	Matched    bool     `json:"matched"`
	Detected   bool     `json:"detected"`
	Device     string   `json:"device,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Material   string   `json:"material,omitempty"`
	Rule       string   `json:"rule,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Key        string   `json:"candidate_key,omitempty"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <filename>...",
		Short: "Show how filenames are classified",
		Long: `Classify filenames with the configured catalog and print the device,
brand and material each one would be filed under. Files are not read; only
the names matter.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, logger, err := ctx.newLogger(cmd.Context(), cfg, "match")
			if err != nil {
				return err
			}
			cat, _, err := ctx.loadCatalog(cfg, logger)
			if err != nil {
				return err
			}
			m := matcher.New(cat)

			views := make([]matchView, 0, len(args))
			for _, name := range args {
				class := m.Classify(name)
				view := matchView{File: name, Matched: class.Matched, Detected: class.Detected()}
				if class.Matched {
					view.Device, view.Brand, view.Material, view.Rule = class.Device, class.Brand, class.Material, class.Result.Rule
				}
				if candidates := m.Candidates(name); len(candidates) > 1 {
					for _, c := range candidates {
						view.Candidates = append(view.Candidates, c.Device)
					}
					view.Key = resolver.CandidateKey(candidates)
				}
				views = append(views, view)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				device := v.Device
				if !v.Matched {
					device = "(no match)"
				}
				rows = append(rows, []string{v.File, device, v.Brand, v.Material, v.Rule, strings.Join(v.Candidates, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"File", "Device", "Brand", "Material", "Rule", "Also matches"}, rows, nil))
			return nil
		},
	}
}
