package preflight

import (
	"profileorg/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks an organize run depends on.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Profiles directory", cfg.Paths.ProfilesDir, ModeRead),
		CheckCreatable("Output directory", cfg.Paths.OutputDir),
		CheckCreatable("State directory", cfg.StateDir()),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatable("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Catalog.Path != "" {
		results = append(results, CheckFile("Catalog", cfg.Catalog.Path))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
