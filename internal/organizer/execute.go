package organizer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"profileorg/internal/failure"
	"profileorg/internal/fileutil"
	"profileorg/internal/icc"
	"profileorg/internal/logging"
)

// Summary reports what Execute did.
type Summary struct {
	Copied            int
	Described         int
	DeletedDuplicates int
	Unclassified      int
	Failures          []Failure
}

// Categories counts failures per failure.Category bucket. Unclassified files
// are counted under "unclassified".
func (s Summary) Categories() map[string]int {
	counts := make(map[string]int)
	for _, f := range s.Failures {
		counts[f.Category]++
	}
	if s.Unclassified > 0 {
		counts["unclassified"] += s.Unclassified
	}
	return counts
}

// CategoryNames returns the keys of Categories in sorted order.
func (s Summary) CategoryNames() []string {
	counts := s.Categories()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OK reports whether every planned operation succeeded.
func (s Summary) OK() bool { return len(s.Failures) == 0 }

// Execute performs the copies in plan. Failures of one file do not stop the
// run; they are collected in the summary. Execute stops early only when ctx is
// canceled.
func (o *Organizer) Execute(ctx context.Context, plan *Plan) (Summary, error) {
	logger := logging.WithContext(ctx, o.logger)
	summary := Summary{Failures: append([]Failure(nil), plan.Failures...), Unclassified: len(plan.Unclassified)}

	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := fileutil.CopyVerified(op.Source, op.Target); err != nil {
			wrapped := failure.Wrap(failure.ErrIO, "organizer", "copy", filepath.Base(op.Source), err)
			summary.Failures = append(summary.Failures, newFailure(op.Source, wrapped))
			logging.WarnWithContext(logger, "copy failed", "profile_copy_failed",
				logging.File(op.Source),
				logging.String("target", op.Target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output_dir permissions and free space"),
			)
			continue
		}
		summary.Copied++
		logger.Debug("file copied", logging.File(op.Source), logging.String("target", op.Target))

		if !op.Describe {
			continue
		}
		text := strings.TrimSuffix(filepath.Base(op.Target), filepath.Ext(op.Target))
		if err := icc.PatchFile(op.Target, text); err != nil {
			wrapped := failure.Wrap(failure.ErrFormat, "organizer", "update description", filepath.Base(op.Target), err)
			summary.Failures = append(summary.Failures, newFailure(op.Target, wrapped))
			logging.WarnWithContext(logger, "description not updated", "profile_description_failed",
				logging.File(op.Target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the profile may be malformed; inspect it with describe"),
				logging.String(logging.FieldImpact, "copied profile keeps its original description"),
			)
			continue
		}
		summary.Described++
	}

	if plan.DeleteDuplicates {
		for _, dup := range plan.Duplicates {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if err := os.Remove(dup.Path); err != nil {
				wrapped := failure.Wrap(failure.ErrIO, "organizer", "delete duplicate", filepath.Base(dup.Path), err)
				summary.Failures = append(summary.Failures, newFailure(dup.Path, wrapped))
				logging.WarnWithContext(logger, "duplicate pdf not deleted", "pdf_delete_failed",
					logging.File(dup.Path),
					logging.Error(err),
				)
				continue
			}
			summary.DeletedDuplicates++
			logger.Info("duplicate pdf deleted", logging.File(dup.Path), logging.String("keeper", dup.Keeper))
		}
	}

	logger.Info("organize run complete",
		logging.Int("copied", summary.Copied),
		logging.Int("described", summary.Described),
		logging.Int("deleted_duplicates", summary.DeletedDuplicates),
		logging.Int("failures", len(summary.Failures)),
	)
	return summary, nil
}
