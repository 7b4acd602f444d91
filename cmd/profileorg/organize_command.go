package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"profileorg/internal/config"
	"profileorg/internal/logging"
	"profileorg/internal/matcher"
	"profileorg/internal/organizer"
	"profileorg/internal/preflight"
	"profileorg/internal/resolver"
)

type organizeFlags struct {
	execute        bool
	interactive    bool
	profilesOnly   bool
	pdfsOnly       bool
	skipDescUpdate bool
	detailed       bool
	export         string
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Plan or execute an organize run",
		Long: `Scan the profiles directory and file every recognized profile under
<output_dir>/<Device>/<Brand>/ as "Device - Brand - Material.ext".

Without --execute the plan is printed and nothing is copied. Source files are
never modified; duplicate PDFs are deleted only when delete_duplicate_pdfs is
set in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(base)
			if err != nil {
				return err
			}
			return runOrganize(cmd, ctx, cfg, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.execute, "execute", false, "Copy files instead of printing the plan")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for the device of ambiguous filenames")
	cmd.Flags().BoolVar(&flags.profilesOnly, "profiles-only", false, "Organize profiles only")
	cmd.Flags().BoolVar(&flags.pdfsOnly, "pdfs-only", false, "Organize PDFs only")
	cmd.Flags().BoolVar(&flags.skipDescUpdate, "skip-desc-update", false, "Keep the embedded descriptions of copied profiles")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "List every planned copy")
	cmd.Flags().StringVar(&flags.export, "export", "", "After executing, copy profiles to the user or system profile directory, or to a path")
	return cmd
}

func (f organizeFlags) apply(base *config.Config) (*config.Config, error) {
	if f.profilesOnly && f.pdfsOnly {
		return nil, errors.New("--profiles-only and --pdfs-only are mutually exclusive")
	}
	if f.export != "" && !f.execute {
		return nil, errors.New("--export requires --execute")
	}
	cfg := *base
	cfg.Organize.Extensions = append([]string(nil), base.Organize.Extensions...)
	if f.interactive {
		cfg.Organize.Interactive = true
	}
	if f.profilesOnly {
		cfg.Organize.PDFs = false
		cfg.Organize.Profiles = true
	}
	if f.pdfsOnly {
		cfg.Organize.Profiles = false
		cfg.Organize.PDFs = true
	}
	if f.skipDescUpdate {
		cfg.Organize.UpdateDescriptions = false
	}
	return &cfg, nil
}

func runOrganize(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, flags organizeFlags) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out) && !ctx.JSONMode()

	if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
		errOut := cmd.ErrOrStderr()
		for _, r := range failed {
			fmt.Fprintln(errOut, renderStatusLine(r.Name, statusError, r.Detail, shouldColorize(errOut)))
		}
		return fmt.Errorf("preflight failed: %d check(s) did not pass", len(failed))
	}

	runCtx, logger, err := ctx.newLogger(cmd.Context(), cfg, "organize")
	if err != nil {
		return err
	}
	release, err := acquireLock(cfg)
	if err != nil {
		return err
	}
	defer release()

	cat, _, err := ctx.loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	opts := []resolver.Option{resolver.WithLogger(logger)}
	if cfg.Organize.Interactive {
		in := cmd.InOrStdin()
		if promptAvailable(in) {
			opts = append(opts,
				resolver.WithInteractive(true),
				resolver.WithDecider(newPromptDecider(in, cmd.ErrOrStderr())),
			)
		} else {
			logging.WarnWithContext(logging.WithContext(runCtx, logger), "interactive mode needs a terminal", "interactive_unavailable",
				logging.String(logging.FieldErrorHint, "run from a terminal to answer device prompts"),
				logging.String(logging.FieldImpact, "ambiguous profiles use learned choices or the rule-matched device"),
			)
		}
	}
	res, err := resolver.New(runCtx, ctx.preferenceStore(cfg, logger), matcher.New(cat), opts...)
	if err != nil {
		return err
	}
	org, err := organizer.New(cfg, cat, res, logger)
	if err != nil {
		return err
	}

	plan, err := org.Plan(runCtx)
	if err != nil {
		return err
	}

	if !flags.execute {
		if ctx.JSONMode() {
			return writeJSON(cmd, newPlanView(plan, nil, nil))
		}
		printPlan(out, plan, flags.detailed, colorize)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Dry run: use --execute to apply changes")
		return nil
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	started := time.Now()
	summary, err := org.Execute(runCtx, plan)
	if err != nil {
		return err
	}
	logging.WithContext(runCtx, logger).Info("organize executed",
		logging.Args(
			logging.Int("copied", summary.Copied),
			logging.Int("described", summary.Described),
			logging.Duration("elapsed", time.Since(started)),
		)...,
	)

	var exported *organizer.ExportResult
	if flags.export != "" {
		target, err := exportTarget(flags.export)
		if err != nil {
			return err
		}
		result, err := org.Export(runCtx, cfg.Paths.OutputDir, target.Dir, target.Flat)
		if err != nil {
			return err
		}
		exported = &result
		summary.Failures = append(summary.Failures, result.Failures...)
	}

	if ctx.JSONMode() {
		if err := writeJSON(cmd, newPlanView(plan, &summary, exported)); err != nil {
			return err
		}
	} else {
		printPlan(out, plan, flags.detailed, colorize)
		fmt.Fprintln(out)
		printSummary(out, summary, exported, colorize)
	}
	if !summary.OK() {
		logging.ErrorWithContext(logging.WithContext(runCtx, logger), "organize finished with failures", "organize_failures",
			logging.Int("failures", len(summary.Failures)),
			logging.Int("copied", summary.Copied),
			logging.Alert("partial_run"),
			logging.String(logging.FieldErrorHint, "see the summary for the failing files"),
		)
		return fmt.Errorf("organize finished with %d failure(s)", len(summary.Failures))
	}
	return nil
}

func exportTarget(value string) (organizer.ExportTarget, error) {
	switch scope := strings.ToLower(strings.TrimSpace(value)); scope {
	case organizer.ScopeUser, organizer.ScopeSystem:
		home, err := os.UserHomeDir()
		if err != nil && scope == organizer.ScopeUser {
			return organizer.ExportTarget{}, fmt.Errorf("resolve home directory: %w", err)
		}
		return organizer.SystemProfileDir(runtime.GOOS, scope, home)
	default:
		dir, err := config.ExpandPath(value)
		if err != nil {
			return organizer.ExportTarget{}, err
		}
		return organizer.ExportTarget{Dir: dir}, nil
	}
}
