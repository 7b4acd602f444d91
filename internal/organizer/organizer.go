package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"profileorg/internal/catalog"
	"profileorg/internal/config"
	"profileorg/internal/dedupe"
	"profileorg/internal/failure"
	"profileorg/internal/logging"
	"profileorg/internal/matcher"
	"profileorg/internal/resolver"
)

// Kind distinguishes the two kinds of planned copies.
type Kind string

const (
	KindProfile Kind = "profile"
	KindPDF     Kind = "pdf"
)

// PDFDir is the output subdirectory that holds filed PDFs.
const PDFDir = "PDFs"

// Operation is one planned copy.
type Operation struct {
	Kind     Kind
	Source   string
	Target   string
	Device   string
	Brand    string
	Material string
	// Rule is the catalog rule that classified the file, empty for PDFs
	// filed by directory name.
	Rule string
	// Resolution is set for profiles.
	Resolution resolver.Resolution
	// Describe requests a desc tag rewrite of Target after the copy.
	Describe bool
}

// Duplicate is a PDF whose content matches an earlier one.
type Duplicate struct {
	Path   string
	Keeper string
}

// Failure records a file the run could not handle.
type Failure struct {
	Path     string
	Category string
	Err      error
}

func newFailure(path string, err error) Failure {
	return Failure{Path: path, Category: failure.Category(err), Err: err}
}

// Plan is the result of scanning and classifying a profiles directory. It
// holds no open resources and may be rendered without executing.
type Plan struct {
	ProfilesDir string
	OutputDir   string

	Operations   []Operation
	Unclassified []string
	Duplicates   []Duplicate
	Failures     []Failure

	// Unresolved counts ambiguous profiles filed under the rule-matched
	// device because no cache or decision answered.
	Unresolved int
	// DeleteDuplicates is copied from the config; Execute removes the
	// duplicate PDFs only when it is set.
	DeleteDuplicates bool
}

// Profiles returns the planned profile copies.
func (p *Plan) Profiles() []Operation { return p.filter(KindProfile) }

// PDFs returns the planned PDF copies.
func (p *Plan) PDFs() []Operation { return p.filter(KindPDF) }

func (p *Plan) filter(kind Kind) []Operation {
	var out []Operation
	for _, op := range p.Operations {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Organizer plans and executes organize runs for one configuration.
type Organizer struct {
	cfg      *config.Config
	matcher  *matcher.Matcher
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// New constructs an organizer. A nil catalog selects the built-in rules; a nil
// resolver resolves nothing and keeps every rule-matched device.
func New(cfg *config.Config, c *catalog.Catalog, res *resolver.Resolver, logger *slog.Logger) (*Organizer, error) {
	if cfg == nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "organizer", "init", "config is required", nil)
	}
	m := matcher.New(c)
	logger = logging.NewComponentLogger(logger, "organizer")
	if res == nil {
		var err error
		res, err = resolver.New(context.Background(), nil, m, resolver.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}
	return &Organizer{cfg: cfg, matcher: m, resolver: res, logger: logger}, nil
}

// Matcher exposes the matcher the organizer classifies with.
func (o *Organizer) Matcher() *matcher.Matcher { return o.matcher }

// Plan scans the profiles directory and builds the copy plan. Which kinds are
// planned follows cfg.Organize.Profiles and cfg.Organize.PDFs.
func (o *Organizer) Plan(ctx context.Context) (*Plan, error) {
	logger := logging.WithContext(ctx, o.logger)
	root := o.cfg.Paths.ProfilesDir
	plan := &Plan{
		ProfilesDir:      root,
		OutputDir:        o.cfg.Paths.OutputDir,
		DeleteDuplicates: o.cfg.Organize.DeleteDuplicatePDFs,
	}
	names := newNameAllocator()

	if o.cfg.Organize.Profiles {
		files, err := ScanFiles(root, o.cfg.Organize.Extensions)
		if err != nil {
			return nil, err
		}
		logger.Info("profile scan complete", logging.String("profiles_dir", root), logging.Int("files", len(files)))
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.planProfile(ctx, logger, plan, names, path)
		}
	}

	if o.cfg.Organize.PDFs {
		files, err := ScanFiles(root, []string{".pdf"})
		if err != nil {
			return nil, err
		}
		if err := o.planPDFs(ctx, logger, plan, names, files); err != nil {
			return nil, err
		}
	}

	logger.Info("organize plan ready",
		logging.Int("operations", len(plan.Operations)),
		logging.Int("unclassified", len(plan.Unclassified)),
		logging.Int("duplicates", len(plan.Duplicates)),
		logging.Int("unresolved_conflicts", plan.Unresolved),
	)
	return plan, nil
}

func (o *Organizer) planProfile(ctx context.Context, logger *slog.Logger, plan *Plan, names *nameAllocator, path string) {
	name := filepath.Base(path)
	class := o.matcher.Classify(name)
	if !class.Detected() {
		plan.Unclassified = append(plan.Unclassified, path)
		logging.WarnWithContext(logger, "profile not classified", "profile_unclassified",
			logging.File(name),
			logging.Bool("rule_matched", class.Matched),
			logging.String("device", class.Device),
			logging.String("brand", class.Brand),
			logging.String(logging.FieldErrorHint, "add an alias or a filename pattern to the catalog"),
			logging.String(logging.FieldImpact, "file is not copied"),
		)
		return
	}

	res, err := o.resolver.Resolve(ctx, name, class.Device)
	if err != nil {
		plan.Failures = append(plan.Failures, newFailure(path, err))
	}
	if res.State == resolver.Unresolved {
		plan.Unresolved++
	}
	device := class.Device
	if res.Source != resolver.SourceDetected {
		device = o.matcher.Catalog().Remap(res.Device)
	}

	ext := filepath.Ext(name)
	base := fmt.Sprintf("%s - %s - %s", segment(device), segment(class.Brand), segment(class.Material))
	filename := names.next(base) + ext
	target := filepath.Join(plan.OutputDir, segment(device), segment(class.Brand), filename)

	plan.Operations = append(plan.Operations, Operation{
		Kind:       KindProfile,
		Source:     path,
		Target:     target,
		Device:     device,
		Brand:      class.Brand,
		Material:   class.Material,
		Rule:       class.Result.Rule,
		Resolution: res,
		Describe:   o.cfg.Organize.UpdateDescriptions && describable(ext),
	})
	logger.Debug("profile planned",
		logging.File(name),
		logging.String("target", target),
		logging.String("rule", class.Result.Rule),
		logging.String("resolution", res.State.String()),
	)
}

func (o *Organizer) planPDFs(ctx context.Context, logger *slog.Logger, plan *Plan, names *nameAllocator, files []string) error {
	if len(files) == 0 {
		return nil
	}
	groups, errs := dedupe.GroupFiles(files)
	for _, err := range errs {
		wrapped := failure.Wrap(failure.ErrIO, "organizer", "hash pdf", "", err)
		plan.Failures = append(plan.Failures, Failure{Category: failure.Category(wrapped), Err: wrapped})
		logging.WarnWithContext(logger, "pdf not hashed", "pdf_hash_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file is not filed or deduplicated"),
		)
	}
	for _, group := range groups.Order() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, dup := range group.Duplicates() {
			plan.Duplicates = append(plan.Duplicates, Duplicate{Path: dup, Keeper: group.Keeper()})
		}
		path := group.Keeper()
		device, rule := o.pdfDevice(plan.ProfilesDir, path)
		name := filepath.Base(path)
		ext := filepath.Ext(name)
		dir := filepath.Join(plan.OutputDir, PDFDir, segment(device))
		target := filepath.Join(dir, names.nextIn(dir, strings.TrimSuffix(name, ext))+ext)
		plan.Operations = append(plan.Operations, Operation{
			Kind:   KindPDF,
			Source: path,
			Target: target,
			Device: device,
			Rule:   rule,
		})
	}
	logger.Info("pdf dedupe complete",
		logging.Int("files", len(files)),
		logging.Int("unique", groups.Len()),
		logging.Int("duplicates", len(groups.Duplicates())),
	)
	return nil
}

// pdfDevice names the device a PDF is filed under: the filename match, then
// the nearest parent directory below root containing a device alias key,
// else Uncategorized.
func (o *Organizer) pdfDevice(root, path string) (string, string) {
	c := o.matcher.Catalog()
	if result, ok := o.matcher.Match(filepath.Base(path)); ok {
		return c.Remap(result.Device), result.Rule
	}
	for _, dir := range parentsBelow(root, path) {
		if key, ok := longestDeviceKey(c.Devices(), filepath.Base(dir)); ok {
			return c.Remap(c.Devices().Canonical(key)), ""
		}
	}
	return UncategorizedDevice, ""
}
