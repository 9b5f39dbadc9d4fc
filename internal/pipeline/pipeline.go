// Package pipeline wires the detection engine together: layout inference,
// the template-matching and text-recognition paths running concurrently, and
// the fusion of their candidate lists into the final detection report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/fusion"
	"github.com/bonktools/itemscan/internal/geometry"
	"github.com/bonktools/itemscan/internal/layout"
	"github.com/bonktools/itemscan/internal/match"
	"github.com/bonktools/itemscan/internal/ocr"
	"github.com/bonktools/itemscan/internal/textscan"
)

// ErrAnalysisInProgress is returned when a second analysis is attempted
// while one is still running. The guard is advisory; callers simply retry
// after the current frame completes.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// Config holds configuration for the detection pipeline.
type Config struct {
	CatalogPath  string
	TemplatesDir string
	Matcher      match.Config
	OCRTimeout   time.Duration
	OCRRetries   int
	OCREnabled   bool
	Aggregate    bool
}

// DefaultConfig returns pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Matcher:    match.DefaultConfig(),
		OCRTimeout: textscan.DefaultAttemptTimeout,
		OCRRetries: textscan.DefaultMaxRetries,
		OCREnabled: true,
		Aggregate:  true,
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg        Config
	cat        *catalog.Catalog
	recognizer ocr.Recognizer
}

// NewBuilder creates a pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithCatalogPath sets the path of the item catalog JSON to load.
func (b *Builder) WithCatalogPath(path string) *Builder {
	if path != "" {
		b.cfg.CatalogPath = path
	}
	return b
}

// WithCatalog supplies an already-loaded catalog, overriding CatalogPath.
func (b *Builder) WithCatalog(c *catalog.Catalog) *Builder {
	b.cat = c
	return b
}

// WithTemplatesDir sets the directory holding per-item template images.
func (b *Builder) WithTemplatesDir(dir string) *Builder {
	if dir != "" {
		b.cfg.TemplatesDir = dir
	}
	return b
}

// WithRecognizer sets the text recognizer. Passing nil disables the text path.
func (b *Builder) WithRecognizer(r ocr.Recognizer) *Builder {
	b.recognizer = r
	b.cfg.OCREnabled = r != nil
	return b
}

// WithMatcherConfig overrides template-matcher tuning.
func (b *Builder) WithMatcherConfig(cfg match.Config) *Builder {
	b.cfg.Matcher = cfg
	return b
}

// WithOCRTimeout sets the per-attempt recognition timeout.
func (b *Builder) WithOCRTimeout(d time.Duration) *Builder {
	if d > 0 {
		b.cfg.OCRTimeout = d
	}
	return b
}

// WithOCRRetries sets the number of recognition re-attempts.
func (b *Builder) WithOCRRetries(n int) *Builder {
	if n >= 0 {
		b.cfg.OCRRetries = n
	}
	return b
}

// WithAggregation toggles collapsing duplicate detections in the result.
func (b *Builder) WithAggregation(on bool) *Builder {
	b.cfg.Aggregate = on
	return b
}

// Build validates the configuration and constructs the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	cat := b.cat
	if cat == nil {
		if b.cfg.CatalogPath == "" {
			return nil, errors.New("pipeline requires a catalog")
		}
		loaded, err := catalog.Load(b.cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}
	if b.cfg.TemplatesDir == "" {
		return nil, errors.New("pipeline requires a templates directory")
	}
	return &Pipeline{
		cfg:        b.cfg,
		cat:        cat,
		recognizer: b.recognizer,
		libraries:  make(map[int]*match.Library),
	}, nil
}

// Pipeline runs the hybrid analysis over one screenshot at a time.
type Pipeline struct {
	cfg        Config
	cat        *catalog.Catalog
	recognizer ocr.Recognizer

	// Template libraries are cached per icon size since the same session
	// usually analyzes frames of one resolution.
	libMu     sync.Mutex
	libraries map[int]*match.Library

	inProgress atomic.Bool
}

// Catalog returns the catalog the pipeline resolves items against.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.cat }

// InProgress reports whether an analysis is currently running.
func (p *Pipeline) InProgress() bool { return p.inProgress.Load() }

// Analyze runs the full hybrid detection over one screenshot. A concurrent
// second call is rejected with ErrAnalysisInProgress; the guard is released
// on every exit path.
func (p *Pipeline) Analyze(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if !p.inProgress.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInProgress
	}
	defer p.inProgress.Store(false)

	start := time.Now()
	bounds := img.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	res := layout.Classify(width, height)
	cells := layout.GenerateGridRegions(width, height)
	sizes := layout.PickIconSizes(res.Category)

	slog.Debug("frame classified",
		"width", width, "height", height,
		"category", res.Category, "cells", len(cells),
	)

	var (
		wg           sync.WaitGroup
		templateHits []match.Candidate
		templateErr  error
		rawText      string
		textErr      error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		templateHits, templateErr = p.runTemplatePath(img, cells, sizes.Medium())
	}()

	if p.cfg.OCREnabled && p.recognizer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rawText, textErr = p.runTextPath(ctx, img)
		}()
	}
	wg.Wait()

	if templateErr != nil {
		return nil, fmt.Errorf("template matching failed: %w", templateErr)
	}
	if textErr != nil {
		return nil, fmt.Errorf("text recognition failed: %w", textErr)
	}

	textHits, counts := p.textCandidates(rawText)
	detections := fusion.Combine(textHits, templateHits)
	applyStackCounts(detections, counts)

	result := &Result{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Resolution: res,
		CellCount:  len(cells),
		RawText:    rawText,
		Detections: detections,
		Duration:   time.Since(start),
	}
	if p.cfg.Aggregate {
		result.Aggregated = fusion.Aggregate(detections)
	}

	slog.Info("analysis complete",
		"detections", len(detections),
		"template_hits", len(templateHits),
		"text_hits", len(textHits),
		"duration", result.Duration,
	)
	return result, nil
}

// runTemplatePath scores the grid cells against the template library for the
// frame's icon size.
func (p *Pipeline) runTemplatePath(img image.Image, cells []geometry.Region, size int) ([]match.Candidate, error) {
	lib, err := p.library(size)
	if err != nil {
		return nil, err
	}
	m := match.NewMatcher(lib, p.cfg.Matcher)
	return m.Detect(img, cells), nil
}

// runTextPath runs OCR with the configured per-attempt timeout and retries.
func (p *Pipeline) runTextPath(ctx context.Context, img image.Image) (string, error) {
	return textscan.Retry(ctx, "text recognition", p.cfg.OCRRetries, p.cfg.OCRTimeout,
		func(ctx context.Context) (string, error) {
			return p.recognizer.Recognize(ctx, img)
		})
}

// textCandidates maps recognized text onto catalog items and extracts stack
// counts. Unmatched lines are dropped silently.
func (p *Pipeline) textCandidates(raw string) ([]fusion.TextCandidate, map[string]int) {
	if raw == "" {
		return nil, nil
	}
	cleaned := textscan.Clean(raw)
	lines := textscan.SegmentText(cleaned)
	counts := textscan.ExtractCounts(cleaned)

	hits := make([]fusion.TextCandidate, 0, len(lines))
	seen := map[string]bool{}
	for _, line := range lines {
		item, ok := p.cat.Match(line)
		if !ok || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		hits = append(hits, fusion.TextCandidate{
			Item:       item,
			Confidence: textHitConfidence(line, item),
			RawText:    line,
		})
	}
	return hits, counts
}

// textHitConfidence scores how much of the recognized line the item name
// accounts for: exact matches score high, names buried in noise lower.
func textHitConfidence(line string, item catalog.Item) float64 {
	norm := catalog.NormalizeName(line)
	name := catalog.NormalizeName(item.Name)
	if norm == name {
		return 0.9
	}
	if len(norm) == 0 {
		return 0.5
	}
	frac := float64(len(name)) / float64(len(norm))
	return 0.5 + 0.4*frac
}

// applyStackCounts attaches extracted stack counts to matching detections.
func applyStackCounts(detections []fusion.Detection, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	for i := range detections {
		key := catalog.NormalizeName(detections[i].Item.Name)
		if n, ok := counts[key]; ok {
			detections[i].StackCount = n
		}
	}
}

// library returns the cached template library for an icon size, loading it
// on first use.
func (p *Pipeline) library(size int) (*match.Library, error) {
	p.libMu.Lock()
	defer p.libMu.Unlock()
	if lib, ok := p.libraries[size]; ok {
		return lib, nil
	}
	lib, err := match.LoadLibrary(p.cfg.TemplatesDir, p.cat, size)
	if err != nil {
		return nil, err
	}
	p.libraries[size] = lib
	return lib, nil
}
