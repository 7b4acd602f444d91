package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"profileorg/internal/catalog"
	"profileorg/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Rule catalog utilities",
	}

	catalogCmd.AddCommand(newCatalogInitCommand())
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))

	return catalogCmd
}

func newCatalogInitCommand() *cobra.Command {
	var targetPath string
	var format string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the built-in catalog as an editable document",
		Long:        "Write the built-in aliases, remappings and filename patterns to a YAML or TOML file.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default catalog path: %w", err)
				}
				target = filepath.Join(filepath.Dir(defaultPath), "catalog."+format)
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve catalog path: %w", err)
				}
				target = expanded
				if detected, err := catalog.FormatFromPath(target); err == nil && !cmd.Flags().Changed("format") {
					format = detected
				}
			}

			data, err := catalog.Encode(catalog.Default(), format)
			if err != nil {
				return err
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create catalog directory %q: %w", dir, err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("catalog already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check catalog path: %w", err)
				}
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote catalog to %s\n", target)
			fmt.Fprintln(out, "Set [catalog] path in the configuration (or export PROFILEORG_CATALOG) to use it.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the catalog file")
	cmd.Flags().StringVar(&format, "format", catalog.FormatYAML, "Document format (yaml or toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var dump string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective catalog",
		Long: `Load the configured catalog and list its rules in evaluation order,
with any sections that fell back to the built-in defaults and any entries
that were skipped. --dump yaml|toml prints the effective catalog instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, logger, err := ctx.newLogger(cmd.Context(), cfg, "catalog")
			if err != nil {
				return err
			}
			cat, report, err := ctx.loadCatalog(cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dump != "" {
				data, err := catalog.Encode(cat, strings.ToLower(dump))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			if ctx.JSONMode() {
				type ruleView struct {
					Name     string `json:"name"`
					Priority int    `json:"priority"`
					Prefix   string `json:"prefix,omitempty"`
					Fields   string `json:"fields"`
				}
				rules := []ruleView{}
				for _, r := range cat.Rules() {
					rules = append(rules, ruleView{Name: r.Name, Priority: r.Priority, Prefix: r.Prefix, Fields: ruleFields(r)})
				}
				return writeJSON(cmd, map[string]any{
					"source":             report.Source,
					"rules":              rules,
					"devices":            cat.Devices().Len(),
					"brands":             cat.Brands().Len(),
					"remappings":         len(cat.Remappings()),
					"defaulted_sections": nonNil(report.DefaultedSections),
					"warnings":           nonNil(report.Warnings),
				})
			}

			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Source", statusInfo, report.Source, colorize))
			fmt.Fprintln(out, renderStatusLine("Aliases", statusInfo,
				fmt.Sprintf("%d device, %d brand, %d remapping(s)", cat.Devices().Len(), cat.Brands().Len(), len(cat.Remappings())), colorize))
			for _, section := range report.DefaultedSections {
				fmt.Fprintln(out, renderStatusLine("Defaulted", statusWarn, section, colorize))
			}
			for _, warning := range report.Warnings {
				fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, warning, colorize))
			}
			rows := make([][]string, 0, len(cat.Rules()))
			for _, r := range cat.Rules() {
				rows = append(rows, []string{strconv.Itoa(r.Priority), r.Name, strconv.Quote(r.Prefix), ruleFields(r)})
			}
			fmt.Fprintln(out, renderTable([]string{"Priority", "Rule", "Prefix", "Fields"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&dump, "dump", "", "Print the effective catalog as yaml or toml")
	return cmd
}

func ruleFields(r catalog.Rule) string {
	parts := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ", ")
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
