// Package hunt runs a market hunt for one city: text search per category,
// detail enrichment, deduplication against the destination, and append.
package hunt

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/fanout"
	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/internal/monitoring"
	"github.com/glowmarket/hunter/internal/sink"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultSource labels rows produced from the Places API.
const DefaultSource = "google_places"

// DefaultCategories are searched when a request names none.
var DefaultCategories = []string{"barberías", "peluquerías", "spa de uñas"}

// Request is the input of a single run.
type Request struct {
	Country    string   `json:"country" yaml:"country"`
	City       string   `json:"city" yaml:"city"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Destination is where accepted rows are stored.
type Destination interface {
	EnsureDestination(ctx context.Context, name string) error
	ExistingKeys(ctx context.Context, name string) (map[string]struct{}, error)
	AppendRows(ctx context.Context, name string, rows []model.OutputRow) (int, error)
}

// Config tunes a Hunter.
type Config struct {
	DefaultCategories []string
	DetailsEnabled    bool
	Concurrency       int
	PreviewRows       int
	Source            string
	IncludeCountry    bool
}

// Option configures a Hunter.
type Option func(*Hunter)

// WithClock overrides the time source used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Hunter) {
		h.now = now
	}
}

// WithRunID overrides run id generation.
func WithRunID(newID func() string) Option {
	return func(h *Hunter) {
		h.newID = newID
	}
}

// Hunter orchestrates runs. It holds no per-run state and is safe for
// concurrent use; runs against the same tab are not serialized.
type Hunter struct {
	searcher *Searcher
	details  *DetailFetcher
	dest     Destination
	cfg      Config
	now      func() time.Time
	newID    func() string
}

// New creates a Hunter.
func New(searcher *Searcher, details *DetailFetcher, dest Destination, cfg Config, opts ...Option) *Hunter {
	if len(cfg.DefaultCategories) == 0 {
		cfg.DefaultCategories = DefaultCategories
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 5
	}
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	h := &Hunter{
		searcher: searcher,
		details:  details,
		dest:     dest,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// PrepareDestination validates country and city, then creates or repairs the
// destination tab. It returns the tab name.
func (h *Hunter) PrepareDestination(ctx context.Context, country, city string) (string, error) {
	country, city = collapse(country), collapse(city)
	if err := validate(country, city); err != nil {
		return "", err
	}
	name := sink.SheetName(city, country, h.cfg.IncludeCountry)
	if err := h.dest.EnsureDestination(ctx, name); err != nil {
		return name, eris.Wrap(err, "hunt: prepare destination")
	}
	return name, nil
}

// RunCity searches every category for the city, enriches and deduplicates
// the results and appends the new rows. Rows of completed categories stay
// stored when a later category fails; in that case the partial summary is
// returned together with the error.
func (h *Hunter) RunCity(ctx context.Context, req Request) (*model.RunSummary, error) {
	start := time.Now()

	country, city := collapse(req.Country), collapse(req.City)
	if err := validate(country, city); err != nil {
		monitoring.ObserveRun("invalid", time.Since(start))
		return nil, err
	}
	categories := h.categories(req.Categories)

	summary := &model.RunSummary{
		RunID:     h.newID(),
		Status:    StatusOK,
		SheetName: sink.SheetName(city, country, h.cfg.IncludeCountry),
	}
	log := zap.L().With(
		zap.String("run_id", summary.RunID),
		zap.String("country", country),
		zap.String("city", city),
		zap.String("sheet", summary.SheetName),
	)
	log.Info("hunt started", zap.Strings("categories", categories))

	fail := func(from int, err error) (*model.RunSummary, error) {
		for _, c := range categories[from:] {
			summary.PerCategory = append(summary.PerCategory, model.CategorySummary{
				Category: c,
				Status:   model.CategorySkipped,
			})
		}
		summary.Status = StatusError
		monitoring.ObserveRun(StatusError, time.Since(start))
		log.Error("hunt failed", zap.Error(err), zap.Int("total_added", summary.TotalAdded))
		return summary, err
	}

	if err := h.dest.EnsureDestination(ctx, summary.SheetName); err != nil {
		return fail(0, eris.Wrap(err, "hunt: prepare destination"))
	}
	existing, err := h.dest.ExistingKeys(ctx, summary.SheetName)
	if err != nil {
		return fail(0, eris.Wrap(err, "hunt: load existing rows"))
	}
	dedupe := NewDeduplicator(existing)
	log.Debug("dedupe seeded", zap.Int("keys", dedupe.Len()))

	for i, category := range categories {
		q := model.SearchQuery{Category: category, City: city, Country: country}
		cs, appended, err := h.runCategory(ctx, log.With(zap.String("category", category)), q, summary.SheetName, dedupe)

		summary.PerCategory = append(summary.PerCategory, cs)
		summary.TotalFound += cs.Found
		summary.TotalAdded += cs.Added
		summary.Results = h.preview(summary.Results, appended)

		if err != nil {
			return fail(i+1, eris.Wrapf(err, "hunt: category %q", category))
		}
	}

	monitoring.ObserveRun(StatusOK, time.Since(start))
	log.Info("hunt complete",
		zap.Int("total_found", summary.TotalFound),
		zap.Int("total_added", summary.TotalAdded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}

// runCategory returns the category summary and the rows actually appended.
func (h *Hunter) runCategory(ctx context.Context, log *zap.Logger, q model.SearchQuery, sheet string, dedupe *Deduplicator) (model.CategorySummary, []model.OutputRow, error) {
	cs := model.CategorySummary{Category: q.Category, Status: model.CategoryOK}

	places, err := h.searcher.SearchAll(ctx, q.Text())
	if err != nil {
		cs.Status = model.CategoryFailed
		cs.Error = err.Error()
		return cs, nil, &SearchError{Category: q.Category, Err: err}
	}
	cs.Found = len(places)
	monitoring.AddPlacesFound(len(places))

	details := h.enrich(ctx, places)

	at := h.now()
	rows := make([]model.OutputRow, len(places))
	for i, p := range places {
		rows[i] = model.NewOutputRow(q, p, details[i], at, h.cfg.Source)
	}
	fresh := dedupe.FilterNew(rows)

	n, err := h.dest.AppendRows(ctx, sheet, fresh)
	n = min(n, len(fresh))
	cs.Added = n
	monitoring.AddRowsAppended(n)
	if err != nil {
		cs.Status = model.CategoryFailed
		cs.Error = err.Error()
		return cs, fresh[:n], err
	}

	log.Info("category complete",
		zap.Int("found", cs.Found),
		zap.Int("new", len(fresh)),
		zap.Int("added", n),
	)
	return cs, fresh[:n], nil
}

// enrich returns one detail per place, index-aligned with places.
func (h *Hunter) enrich(ctx context.Context, places []model.RawPlace) []model.PlaceDetail {
	if !h.cfg.DetailsEnabled || h.details == nil {
		out := make([]model.PlaceDetail, len(places))
		for i, p := range places {
			out[i] = model.EmptyDetail(p.PlaceID)
		}
		return out
	}

	return fanout.MapBounded(ctx, places, h.cfg.Concurrency,
		func(ctx context.Context, p model.RawPlace) (model.PlaceDetail, error) {
			// Without an id there is nothing to look up; the row keeps its search values.
			if strings.TrimSpace(p.PlaceID) == "" {
				return model.EmptyDetail(""), nil
			}
			return h.details.Lookup(ctx, p.PlaceID)
		},
		func(p model.RawPlace, err error) model.PlaceDetail {
			return h.details.Degrade(p.PlaceID, err)
		},
	)
}

func (h *Hunter) preview(acc, rows []model.OutputRow) []model.OutputRow {
	room := h.cfg.PreviewRows - len(acc)
	if room <= 0 {
		return acc
	}
	return append(acc, rows[:min(room, len(rows))]...)
}

// categories trims the requested categories, drops blanks and duplicates, and
// falls back to the configured defaults.
func (h *Hunter) categories(requested []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range requested {
		c = collapse(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return append([]string(nil), h.cfg.DefaultCategories...)
	}
	return out
}

func validate(country, city string) error {
	var missing []string
	if country == "" {
		missing = append(missing, "country")
	}
	if city == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
