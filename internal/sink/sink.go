// Package sink writes hunt results to a destination tab: it creates the tab,
// keeps the header row canonical, reads back stored identities and appends rows.
package sink

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/pkg/sheets"
)

const defaultChunkSize = 300

// Sink persists OutputRows into named tabs of a spreadsheet.
type Sink struct {
	client    sheets.Client
	header    []string
	chunkSize int
}

// Option configures a Sink.
type Option func(*Sink)

// WithChunkSize bounds the number of rows sent per append call.
func WithChunkSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithHeader overrides the column order. Unknown column names are written as
// empty cells.
func WithHeader(header []string) Option {
	return func(s *Sink) {
		s.header = slices.Clone(header)
	}
}

// New creates a Sink over client using model.Header.
func New(client sheets.Client, opts ...Option) *Sink {
	s := &Sink{
		client:    client,
		header:    slices.Clone(model.Header),
		chunkSize: defaultChunkSize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Header returns the column order this sink writes.
func (s *Sink) Header() []string {
	return slices.Clone(s.header)
}

// EnsureDestination creates the tab when missing and makes row 1 equal the
// header. When a stored header differs, the data rows are rewritten under the
// canonical column order so their identities survive; columns the header does
// not know are dropped and stale cells beyond the new width are cleared.
// Calling it repeatedly is harmless.
func (s *Sink) EnsureDestination(ctx context.Context, name string) error {
	log := zap.L().With(zap.String("sheet", name))

	titles, err := s.client.SheetTitles(ctx)
	if err != nil {
		return destErr("list tabs", name, err)
	}
	if !slices.Contains(titles, name) {
		if err := s.client.AddSheet(ctx, name); err != nil {
			return destErr("create tab", name, err)
		}
		log.Info("created destination tab")
		return s.write(ctx, name, [][]string{s.header})
	}

	rows, err := s.client.GetValues(ctx, sheets.QuoteTitle(name))
	if err != nil {
		return destErr("read tab", name, err)
	}
	if len(rows) > 0 && slices.Equal(rows[0], s.header) {
		return nil
	}

	values, dropped := s.relayout(rows)
	if len(dropped) > 0 {
		log.Warn("dropping columns unknown to the header", zap.Strings("columns", dropped))
	}
	if err := s.write(ctx, name, values); err != nil {
		return err
	}
	log.Info("rewrote header row",
		zap.Strings("header", s.header),
		zap.Int("rows_migrated", len(values)-1),
	)
	return nil
}

// relayout returns the canonical header followed by the stored data rows
// re-ordered to match it, every row padded to the widest stored row. Data
// rows are only moved when the stored header names at least one known column.
func (s *Sink) relayout(rows [][]string) ([][]string, []string) {
	width := len(s.header)
	for _, r := range rows {
		width = max(width, len(r))
	}

	out := [][]string{pad(s.header, width)}
	if len(rows) == 0 {
		return out, nil
	}

	stored := rows[0]
	var known bool
	var dropped []string
	for _, col := range stored {
		if slices.Contains(s.header, col) {
			known = true
			continue
		}
		if col != "" {
			dropped = append(dropped, col)
		}
	}
	if !known {
		return out, nil
	}

	for _, vals := range rows[1:] {
		out = append(out, pad(model.RowFromValues(stored, vals).Values(s.header), width))
	}
	return out, dropped
}

func (s *Sink) write(ctx context.Context, name string, values [][]string) error {
	width := 0
	for _, r := range values {
		width = max(width, len(r))
	}
	rng := sheets.A1Range(name, 1, 1, width, len(values))
	if err := s.client.UpdateValues(ctx, rng, values); err != nil {
		return destErr("write header", name, err)
	}
	return nil
}

func pad(vals []string, width int) []string {
	out := make([]string, width)
	copy(out, vals)
	return out
}

// ExistingKeys reads the stored rows once and returns their dedupe keys.
// Columns are resolved from the tab's own header row.
func (s *Sink) ExistingKeys(ctx context.Context, name string) (map[string]struct{}, error) {
	rows, err := s.client.GetValues(ctx, sheets.QuoteTitle(name))
	if err != nil {
		return nil, destErr("read rows", name, err)
	}

	keys := make(map[string]struct{})
	if len(rows) < 2 {
		return keys, nil
	}

	header := rows[0]
	if !slices.Contains(header, model.ColPlaceID) {
		header = s.header
	}
	for _, vals := range rows[1:] {
		if k := model.RowFromValues(header, vals).Key(); k != "" {
			keys[k] = struct{}{}
		}
	}

	zap.L().Debug("loaded existing keys", zap.String("sheet", name), zap.Int("rows", len(rows)-1), zap.Int("keys", len(keys)))
	return keys, nil
}

// AppendRows writes rows in header order, in chunks. It returns the number of
// rows the store reports as appended; on a failed chunk that count covers the
// chunks written before it.
func (s *Sink) AppendRows(ctx context.Context, name string, rows []model.OutputRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	rng := sheets.A1Range(name, 1, 1, len(s.header), 0)
	appended := 0
	for chunk := range slices.Chunk(rows, s.chunkSize) {
		values := make([][]string, len(chunk))
		for i, r := range chunk {
			values[i] = r.Values(s.header)
		}
		n, err := s.client.AppendValues(ctx, rng, values)
		if err != nil {
			return appended, destErr("append rows", name, err)
		}
		appended += n
	}

	zap.L().Info("appended rows", zap.String("sheet", name), zap.Int("rows", appended))
	return appended, nil
}
