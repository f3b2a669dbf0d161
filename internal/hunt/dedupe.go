package hunt

import (
	"github.com/glowmarket/hunter/internal/model"
)

// Deduplicator filters rows whose identity was already stored or already
// accepted earlier in the run. It is owned by a single run.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator seeds the set with the keys already in the destination.
func NewDeduplicator(existing map[string]struct{}) *Deduplicator {
	seen := make(map[string]struct{}, len(existing))
	for k := range existing {
		seen[k] = struct{}{}
	}
	return &Deduplicator{seen: seen}
}

// FilterNew returns the rows not seen before, in encounter order, and records
// their keys. The first occurrence of a key wins. Rows without a usable key
// are dropped.
func (d *Deduplicator) FilterNew(rows []model.OutputRow) []model.OutputRow {
	var out []model.OutputRow
	for _, r := range rows {
		k := r.Key()
		if k == "" {
			continue
		}
		if _, ok := d.seen[k]; ok {
			continue
		}
		d.seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Seen reports whether key is already known.
func (d *Deduplicator) Seen(key string) bool {
	_, ok := d.seen[key]
	return ok
}

// Len returns the number of known keys.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
