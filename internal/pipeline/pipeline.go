// Package pipeline sequences discovery, extraction, classification, key
// derivation, catalog mutation, the external compiler, and source rewriting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/MajorE-Garage/arbshift/internal/cache"
	"github.com/MajorE-Garage/arbshift/internal/catalog"
	"github.com/MajorE-Garage/arbshift/internal/classify"
	"github.com/MajorE-Garage/arbshift/internal/discover"
	"github.com/MajorE-Garage/arbshift/internal/extract"
	"github.com/MajorE-Garage/arbshift/internal/keygen"
	"github.com/MajorE-Garage/arbshift/internal/llm"
	"github.com/MajorE-Garage/arbshift/internal/model"
	"github.com/MajorE-Garage/arbshift/internal/rewrite"
	"github.com/MajorE-Garage/arbshift/internal/worker"

	"github.com/rs/zerolog"
)

// Pipeline orchestrates one run against a source tree and its catalog.
type Pipeline struct {
	cfg        *model.Config
	discoverer *discover.Discoverer
	extractor  *extract.Extractor
	deriver    *keygen.Deriver
	store      *catalog.Store
	mutator    *rewrite.Mutator
	compiler   *Compiler
	scanCache  *cache.ScanCache // nil when disabled
	reviewer   *llm.Reviewer    // nil when disabled
	log        zerolog.Logger
}

// NewPipeline wires a pipeline from configuration.
func NewPipeline(cfg *model.Config, log zerolog.Logger) (*Pipeline, error) {
	p := &Pipeline{
		cfg:        cfg,
		discoverer: discover.New(cfg.Scan.Suffix, cfg.Scan.Exclude, cfg.Scan.ExcludeSuffixes, log),
		extractor:  extract.NewExtractor(),
		deriver:    keygen.NewDeriver(),
		store:      catalog.NewStore(cfg.Catalog.Path, cfg.Catalog.Locale, log),
		mutator:    rewrite.NewMutator(cfg.Rewrite.Reference, log),
		compiler:   NewCompiler(cfg.Catalog.Compiler, cfg.Catalog.CompileTimeout, log),
		log:        log,
	}
	if cfg.Scan.CacheEnabled {
		p.scanCache = cache.NewScanCache(cfg.Scan.CacheDir)
	}
	if cfg.LLM.Provider != "" {
		reviewer, err := llm.NewReviewer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("init LLM reviewer: %w", err)
		}
		p.reviewer = reviewer
	}
	return p, nil
}

// Scan runs the read-only half of the pipeline: nothing is written, the
// report shows what an apply would do.
func (p *Pipeline) Scan(ctx context.Context) (*model.Report, error) {
	report, _, err := p.analyze(ctx)
	if err != nil {
		return nil, err
	}
	report.DryRun = true
	for _, rec := range report.Records {
		if rec.Category == model.CategoryEligible {
			report.NewEntries = append(report.NewEntries, model.NewEntry{Key: rec.Key, Value: rec.Value})
		}
	}
	sortEntries(report.NewEntries)
	p.review(ctx, report)
	return report, nil
}

// Apply runs the full mutating pipeline: catalog transaction, external
// compiler, source rewrites and annotations.
func (p *Pipeline) Apply(ctx context.Context) (*model.Report, error) {
	// A leftover backup is a recovery artifact from an interrupted run;
	// never silently proceed over it.
	if p.store.HasBackup() {
		return nil, fmt.Errorf("%w: %s", catalog.ErrStaleBackup, p.store.BackupPath())
	}

	report, cat, err := p.analyze(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []*model.StringRecord
	for _, rec := range report.Records {
		if rec.Category == model.CategoryEligible {
			eligible = append(eligible, rec)
		}
	}

	if len(eligible) > 0 {
		if err := p.commitEligible(ctx, report, cat, eligible); err != nil {
			return report, err
		}
	}

	// Source rewrites happen after the catalog is committed. Cataloged
	// strings are replaced too, so occurrences that reappear in source
	// keep pointing at their existing keys.
	var replaceable []*model.StringRecord
	for _, rec := range report.Records {
		if rec.Category == model.CategoryEligible || rec.Category == model.CategoryCataloged {
			replaceable = append(replaceable, rec)
		}
	}
	replacements, err := p.mutator.Replace(replaceable)
	if err != nil {
		return report, fmt.Errorf("replace literals: %w", err)
	}
	annotations, err := p.mutator.Annotate(report.Records)
	if err != nil {
		return report, fmt.Errorf("annotate deferred strings: %w", err)
	}
	fillTouched(report, replacements, annotations)

	p.review(ctx, report)
	return report, nil
}

// analyze is the shared read-only front half: discover, extract in
// parallel, dedupe, classify, derive prospective keys.
func (p *Pipeline) analyze(ctx context.Context) (*model.Report, *catalog.Catalog, error) {
	report := &model.Report{
		Root:        p.cfg.Scan.Root,
		CatalogPath: p.cfg.Catalog.Path,
		StartedAt:   time.Now().UTC(),
	}

	files, err := p.discoverer.Discover(p.cfg.Scan.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("discover sources: %w", err)
	}
	report.FilesScanned = len(files)
	p.log.Info().Int("files", len(files)).Str("root", p.cfg.Scan.Root).Msg("scanning")

	results := worker.Run(ctx, files, p.cfg.Scan.Workers, p.scanFile)
	var candidates []extract.RawCandidate
	for _, res := range results {
		if res.Err != nil {
			// Individual file errors are skipped, never fatal.
			p.log.Warn().Str("file", res.Path).Err(res.Err).Msg("skipping file")
			continue
		}
		candidates = append(candidates, res.Candidates...)
	}

	extract.SortCandidates(candidates)
	records := extract.Dedupe(candidates)

	cat := p.store.Load()
	classify.New(cat.ValueIndex()).Classify(records)

	// Prospective keys for eligible strings; taken tracks both catalog
	// keys and keys assigned earlier in this batch.
	taken := cat.Keys()
	for _, rec := range records {
		if rec.Category != model.CategoryEligible {
			continue
		}
		rec.Key = p.deriver.Derive(rec.Value, taken)
		taken[rec.Key] = rec.Value
	}

	report.Records = records
	report.CountRecords()
	return report, cat, nil
}

// scanFile reads one file and extracts its candidates, through the scan
// cache when enabled.
func (p *Pipeline) scanFile(_ context.Context, path string) worker.FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return worker.FileResult{Path: path, Err: err}
	}
	if p.scanCache != nil {
		if cands, ok := p.scanCache.Lookup(path, data); ok {
			return worker.FileResult{Path: path, Candidates: cands}
		}
	}
	cands := p.extractor.ExtractSource(path, data)
	if p.scanCache != nil {
		p.scanCache.Store(path, data, cands)
	}
	return worker.FileResult{Path: path, Candidates: cands}
}

// commitEligible appends the new entries inside the backup→save→compile→
// (commit|rollback) window.
func (p *Pipeline) commitEligible(ctx context.Context, report *model.Report, cat *catalog.Catalog, eligible []*model.StringRecord) error {
	txn, err := p.store.Begin()
	if err != nil {
		return err
	}

	for _, rec := range eligible {
		cat.Add(rec.Key, rec.Value, "Auto-generated for: "+rec.Value)
		report.NewEntries = append(report.NewEntries, model.NewEntry{Key: rec.Key, Value: rec.Value})
	}
	sortEntries(report.NewEntries)

	if err := p.store.Save(cat); err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			p.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return fmt.Errorf("save catalog: %w", err)
	}

	out, err := p.compiler.Run(ctx)
	report.CompilerRan = p.compiler.Enabled()
	report.CompilerOut = out
	if err != nil {
		if rbErr := txn.Rollback(); rbErr != nil {
			p.log.Error().Err(rbErr).Msg("rollback failed, catalog may need manual restore")
		}
		return fmt.Errorf("catalog compiler failed (catalog restored): %w", err)
	}

	return txn.Commit()
}

// review attaches advisory LLM notes when a reviewer is configured.
// Advice failures degrade to a warning, never fail a run.
func (p *Pipeline) review(ctx context.Context, report *model.Report) {
	if p.reviewer == nil {
		return
	}
	advice, err := p.reviewer.GenerateAdvice(ctx, report.Records)
	if err != nil {
		p.log.Warn().Err(err).Msg("LLM advice generation failed")
		return
	}
	report.Advice = advice
}

func fillTouched(report *model.Report, replacements, annotations map[string]int) {
	perFile := make(map[string]*model.FileMutations)
	touch := func(path string) *model.FileMutations {
		if fm, ok := perFile[path]; ok {
			return fm
		}
		fm := &model.FileMutations{Path: path}
		perFile[path] = fm
		return fm
	}
	for path, n := range replacements {
		touch(path).Replacements = n
		report.Replacements += n
	}
	for path, n := range annotations {
		touch(path).Annotations = n
		report.Annotations += n
	}

	paths := make([]string, 0, len(perFile))
	for path := range perFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		report.Touched = append(report.Touched, *perFile[path])
	}
}

func sortEntries(entries []model.NewEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
}
