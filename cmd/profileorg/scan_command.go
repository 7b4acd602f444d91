package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"profileorg/internal/config"
	"profileorg/internal/matcher"
	"profileorg/internal/organizer"
)

type scanGroupView struct {
	Device    string   `json:"device,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Prefix    string   `json:"prefix"`
	Extension string   `json:"extension"`
	Files     []string `json:"files"`
}

type scanView struct {
	Dir        string          `json:"dir"`
	Total      int             `json:"total"`
	Detected   int             `json:"detected"`
	Rate       float64         `json:"rate"`
	Undetected []scanGroupView `json:"undetected"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Report how many profiles the catalog detects",
		Long: `Scan a directory (the configured profiles directory by default) and
report the detection rate. Undetected files are grouped by partial detection,
leading token and extension so one new catalog rule can cover each group.`,
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
			_, logger, err := ctx.newLogger(cmd.Context(), cfg, "scan")
			if err != nil {
				return err
			}
			cat, _, err := ctx.loadCatalog(cfg, logger)
			if err != nil {
				return err
			}
			files, err := organizer.ScanFiles(dir, cfg.Organize.Extensions)
			if err != nil {
				return err
			}
			report := organizer.BuildReport(matcher.New(cat), files)

			if ctx.JSONMode() {
				view := scanView{Dir: dir, Total: report.Total, Detected: report.Detected, Rate: report.Rate(), Undetected: []scanGroupView{}}
				for _, g := range report.Undetected {
					view.Undetected = append(view.Undetected, scanGroupView{
						Device: g.Device, Brand: g.Brand, Prefix: g.Prefix, Extension: g.Extension, Files: g.Files,
					})
				}
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			kind := statusOK
			if report.Detected < report.Total {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Detected", kind,
				fmt.Sprintf("%d of %d (%.1f%%)", report.Detected, report.Total, report.Rate()), colorize))
			if len(report.Undetected) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(report.Undetected))
			for _, g := range report.Undetected {
				rows = append(rows, []string{
					orDash(g.Prefix), g.Extension, orDash(g.Device), orDash(g.Brand),
					strconv.Itoa(len(g.Files)), relativeTo(dir, g.Files[0]),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Prefix", "Ext", "Device", "Brand", "Files", "Example"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
