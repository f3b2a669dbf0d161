package hunt

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/internal/monitoring"
	"github.com/glowmarket/hunter/pkg/google"
)

const (
	// Continuation tokens are not valid until a short time after they are issued.
	minPageDelay    = 2 * time.Second
	defaultMaxPages = 3
	maxPagesCap     = 10
)

// Searcher runs a text search and follows continuation tokens.
type Searcher struct {
	client    google.Client
	pageDelay time.Duration
	maxPages  int
	sleep     func(ctx context.Context, d time.Duration) error
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithPageDelay sets the wait before each continuation request. Values below
// two seconds are raised to two seconds.
func WithPageDelay(d time.Duration) SearchOption {
	return func(s *Searcher) {
		s.pageDelay = max(d, minPageDelay)
	}
}

// WithMaxPages bounds the number of pages fetched per query (1..10).
func WithMaxPages(n int) SearchOption {
	return func(s *Searcher) {
		switch {
		case n < 1:
			s.maxPages = defaultMaxPages
		case n > maxPagesCap:
			s.maxPages = maxPagesCap
		default:
			s.maxPages = n
		}
	}
}

// NewSearcher creates a Searcher over client.
func NewSearcher(client google.Client, opts ...SearchOption) *Searcher {
	s := &Searcher{
		client:    client,
		pageDelay: minPageDelay,
		maxPages:  defaultMaxPages,
		sleep:     sleepCtx,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SearchAll returns every place for query across up to maxPages pages, in
// provider order. A quota rejection after the first page ends pagination with
// the places collected so far; any other non-OK status is returned as a
// *google.StatusError.
func (s *Searcher) SearchAll(ctx context.Context, query string) ([]model.RawPlace, error) {
	log := zap.L().With(zap.String("query", query))

	var (
		places    []model.RawPlace
		pageToken string
	)
	for page := 1; page <= s.maxPages; page++ {
		if page > 1 {
			if err := s.sleep(ctx, s.pageDelay); err != nil {
				return nil, eris.Wrap(err, "hunt: wait for next page")
			}
		}

		resp, err := s.client.TextSearch(ctx, query, pageToken)
		if err != nil {
			monitoring.IncProviderRequest("textsearch", "error")
			return nil, eris.Wrapf(err, "hunt: text search page %d", page)
		}
		monitoring.IncProviderRequest("textsearch", resp.Status)

		switch resp.Status {
		case google.StatusOK, google.StatusZeroResults:
		case google.StatusOverQueryLimit:
			if page == 1 {
				return nil, statusError("textsearch", resp.Status, resp.ErrorMessage)
			}
			log.Warn("quota reached mid-pagination, keeping earlier pages",
				zap.Int("page", page),
				zap.Int("places", len(places)),
			)
			return places, nil
		default:
			return nil, statusError("textsearch", resp.Status, resp.ErrorMessage)
		}

		for _, r := range resp.Results {
			places = append(places, toRawPlace(r))
		}

		log.Debug("search page", zap.Int("page", page), zap.Int("results", len(resp.Results)))

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return places, nil
}

func toRawPlace(r google.PlaceResult) model.RawPlace {
	return model.RawPlace{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Location:         toCoordinates(r.Geometry),
		Rating:           r.Rating,
	}
}

func toCoordinates(g *google.Geometry) *model.Coordinates {
	if g == nil || g.Location == nil {
		return nil
	}
	return &model.Coordinates{Lat: g.Location.Lat, Lng: g.Location.Lng}
}

func statusError(endpoint, status, msg string) *google.StatusError {
	return &google.StatusError{Endpoint: endpoint, Status: status, Message: msg}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
