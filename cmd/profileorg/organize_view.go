package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"profileorg/internal/organizer"
)

type operationView struct {
	Kind       string `json:"kind"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	Device     string `json:"device"`
	Brand      string `json:"brand,omitempty"`
	Material   string `json:"material,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Resolution string `json:"resolution,omitempty"`
}

type duplicateView struct {
	Path   string `json:"path"`
	Keeper string `json:"keeper"`
}

type failureView struct {
	Path     string `json:"path,omitempty"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

type summaryView struct {
	Copied            int            `json:"copied"`
	Described         int            `json:"described"`
	DeletedDuplicates int            `json:"deleted_duplicates"`
	Exported          *int           `json:"exported,omitempty"`
	Categories        map[string]int `json:"failure_categories"`
	Failures          []failureView  `json:"failures"`
}

type planView struct {
	ProfilesDir  string          `json:"profiles_dir"`
	OutputDir    string          `json:"output_dir"`
	Executed     bool            `json:"executed"`
	Operations   []operationView `json:"operations"`
	Unclassified []string        `json:"unclassified"`
	Duplicates   []duplicateView `json:"duplicates"`
	Unresolved   int             `json:"unresolved_conflicts"`
	Summary      *summaryView    `json:"summary,omitempty"`
}

func newPlanView(plan *organizer.Plan, summary *organizer.Summary, exported *organizer.ExportResult) planView {
	view := planView{
		ProfilesDir:  plan.ProfilesDir,
		OutputDir:    plan.OutputDir,
		Executed:     summary != nil,
		Operations:   []operationView{},
		Unclassified: append([]string{}, plan.Unclassified...),
		Duplicates:   []duplicateView{},
		Unresolved:   plan.Unresolved,
	}
	for _, op := range plan.Operations {
		v := operationView{
			Kind:     string(op.Kind),
			Source:   op.Source,
			Target:   op.Target,
			Device:   op.Device,
			Brand:    op.Brand,
			Material: op.Material,
			Rule:     op.Rule,
		}
		if op.Kind == organizer.KindProfile {
			v.Resolution = op.Resolution.State.String()
		}
		view.Operations = append(view.Operations, v)
	}
	for _, d := range plan.Duplicates {
		view.Duplicates = append(view.Duplicates, duplicateView{Path: d.Path, Keeper: d.Keeper})
	}
	if summary != nil {
		sv := &summaryView{
			Copied:            summary.Copied,
			Described:         summary.Described,
			DeletedDuplicates: summary.DeletedDuplicates,
			Categories:        summary.Categories(),
			Failures:          []failureView{},
		}
		if exported != nil {
			n := exported.Copied
			sv.Exported = &n
		}
		for _, f := range summary.Failures {
			sv.Failures = append(sv.Failures, failureView{Path: f.Path, Category: f.Category, Error: f.Err.Error()})
		}
		view.Summary = sv
	}
	return view
}

func printPlan(out io.Writer, plan *organizer.Plan, detailed, colorize bool) {
	profiles := plan.Profiles()
	pdfs := plan.PDFs()

	writeLines(out, renderSectionHeader("Profiles", colorize)...)
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles to organize")
	} else if detailed {
		printOperations(out, plan.OutputDir, profiles)
	} else {
		fmt.Fprintln(out, renderTable([]string{"Device", "Brand", "Profiles"}, groupCounts(profiles), []columnAlignment{alignLeft, alignLeft, alignRight}))
	}
	if len(plan.Unclassified) > 0 {
		fmt.Fprintln(out, renderStatusLine("Unclassified", statusWarn, fmt.Sprintf("%d file(s) not copied", len(plan.Unclassified)), colorize))
		for _, path := range plan.Unclassified {
			fmt.Fprintf(out, "    %s\n", relativeTo(plan.ProfilesDir, path))
		}
	}
	if plan.Unresolved > 0 {
		fmt.Fprintln(out, renderStatusLine("Conflicts", statusWarn, fmt.Sprintf("%d ambiguous file(s) kept the matched device", plan.Unresolved), colorize))
	}

	if len(pdfs) == 0 && len(plan.Duplicates) == 0 {
		return
	}
	fmt.Fprintln(out)
	writeLines(out, renderSectionHeader("PDFs", colorize)...)
	if detailed {
		printOperations(out, plan.OutputDir, pdfs)
	} else if len(pdfs) > 0 {
		fmt.Fprintln(out, renderTable([]string{"Device", "PDFs"}, deviceCounts(pdfs), []columnAlignment{alignLeft, alignRight}))
	}
	if len(plan.Duplicates) > 0 {
		action := "kept in place"
		if plan.DeleteDuplicates {
			action = "deleted on execute"
		}
		fmt.Fprintln(out, renderStatusLine("Duplicates", statusInfo, fmt.Sprintf("%d duplicate PDF(s) %s", len(plan.Duplicates), action), colorize))
		if detailed {
			for _, d := range plan.Duplicates {
				fmt.Fprintf(out, "    %s (same as %s)\n", relativeTo(plan.ProfilesDir, d.Path), relativeTo(plan.ProfilesDir, d.Keeper))
			}
		}
	}
}

func printOperations(out io.Writer, outputDir string, ops []organizer.Operation) {
	for _, op := range ops {
		fmt.Fprintf(out, "  %s -> %s\n", filepath.Base(op.Source), relativeTo(outputDir, op.Target))
	}
}

func groupCounts(ops []organizer.Operation) [][]string {
	type key struct{ device, brand string }
	counts := map[key]int{}
	for _, op := range ops {
		counts[key{op.Device, op.Brand}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].device != keys[j].device {
			return keys[i].device < keys[j].device
		}
		return keys[i].brand < keys[j].brand
	})
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k.device, k.brand, strconv.Itoa(counts[k])})
	}
	return rows
}

func deviceCounts(ops []organizer.Operation) [][]string {
	counts := map[string]int{}
	for _, op := range ops {
		counts[op.Device]++
	}
	devices := make([]string, 0, len(counts))
	for d := range counts {
		devices = append(devices, d)
	}
	sort.Strings(devices)
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d, strconv.Itoa(counts[d])})
	}
	return rows
}

func printSummary(out io.Writer, summary organizer.Summary, exported *organizer.ExportResult, colorize bool) {
	writeLines(out, renderSectionHeader("Summary", colorize)...)
	fmt.Fprintln(out, renderStatusLine("Copied", statusOK, strconv.Itoa(summary.Copied), colorize))
	fmt.Fprintln(out, renderStatusLine("Descriptions", statusOK, strconv.Itoa(summary.Described), colorize))
	if summary.DeletedDuplicates > 0 {
		fmt.Fprintln(out, renderStatusLine("Duplicates deleted", statusOK, strconv.Itoa(summary.DeletedDuplicates), colorize))
	}
	if exported != nil {
		fmt.Fprintln(out, renderStatusLine("Exported", statusOK, strconv.Itoa(exported.Copied), colorize))
	}
	names := summary.CategoryNames()
	if len(names) == 0 {
		return
	}
	counts := summary.Categories()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	fmt.Fprintln(out, renderTable([]string{"Category", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	for _, f := range summary.Failures {
		fmt.Fprintln(out, renderStatusLine(f.Category, statusError, f.Err.Error(), colorize))
	}
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
