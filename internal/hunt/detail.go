package hunt

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/internal/monitoring"
	"github.com/glowmarket/hunter/pkg/google"
)

// DetailFetcher enriches places with phone, website and location from Place
// Details.
type DetailFetcher struct {
	client  google.Client
	limiter *rate.Limiter
}

// NewDetailFetcher creates a DetailFetcher paced at perSecond requests per
// second. A non-positive rate disables pacing.
func NewDetailFetcher(client google.Client, perSecond float64) *DetailFetcher {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(int(perSecond), 1)
	}
	return &DetailFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// FetchDetails returns the detail for placeID. It never fails: any error
// yields an empty detail carrying only the id.
func (f *DetailFetcher) FetchDetails(ctx context.Context, placeID string) model.PlaceDetail {
	d, err := f.Lookup(ctx, placeID)
	if err != nil {
		return f.Degrade(placeID, err)
	}
	return d
}

// Lookup is FetchDetails without the degradation: failures are returned.
func (f *DetailFetcher) Lookup(ctx context.Context, placeID string) (model.PlaceDetail, error) {
	if strings.TrimSpace(placeID) == "" {
		return model.PlaceDetail{}, eris.New("hunt: place has no id")
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return model.PlaceDetail{}, eris.Wrap(err, "hunt: details rate limit wait")
	}

	resp, err := f.client.Details(ctx, placeID)
	if err != nil {
		monitoring.IncProviderRequest("details", "error")
		return model.PlaceDetail{}, eris.Wrapf(err, "hunt: details %s", placeID)
	}
	monitoring.IncProviderRequest("details", resp.Status)

	if resp.Status != google.StatusOK {
		return model.PlaceDetail{}, statusError("details", resp.Status, resp.ErrorMessage)
	}
	if resp.Result == nil {
		return model.PlaceDetail{}, eris.Errorf("hunt: details %s returned no result", placeID)
	}

	r := resp.Result
	return model.PlaceDetail{
		PlaceID:          firstNonEmpty(r.PlaceID, placeID),
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Phone:            firstNonEmpty(r.InternationalPhoneNumber, r.FormattedPhoneNumber),
		Website:          r.Website,
		Location:         toCoordinates(r.Geometry),
	}, nil
}

// Degrade logs and counts a failed lookup and returns the empty detail.
func (f *DetailFetcher) Degrade(placeID string, err error) model.PlaceDetail {
	zap.L().Warn("place details unavailable", zap.String("place_id", placeID), zap.Error(err))
	monitoring.IncDetailFailure()
	return model.EmptyDetail(placeID)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
