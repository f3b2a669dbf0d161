package hunt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/pkg/google"
	"github.com/glowmarket/hunter/pkg/google/mocks"
)

func TestFetchDetails_PhonePrecedence(t *testing.T) {
	tests := []struct {
		name          string
		international string
		formatted     string
		want          string
	}{
		{name: "international wins", international: "+57 601 1234567", formatted: "(601) 1234567", want: "+57 601 1234567"},
		{name: "formatted fallback", formatted: "(601) 1234567", want: "(601) 1234567"},
		{name: "none", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(t)
			client.On("Details", mock.Anything, "pid").Return(&google.DetailsResponse{
				Status: google.StatusOK,
				Result: &google.PlaceDetails{
					PlaceID:                  "pid",
					Name:                     "Barbería Don Juan",
					InternationalPhoneNumber: tt.international,
					FormattedPhoneNumber:     tt.formatted,
					Website:                  "https://donjuan.co",
					Geometry:                 &google.Geometry{Location: &google.LatLng{Lat: 4.6, Lng: -74.1}},
				},
			}, nil).Once()

			d := NewDetailFetcher(client, 0).FetchDetails(context.Background(), "pid")
			assert.Equal(t, tt.want, d.Phone)
			assert.Equal(t, "https://donjuan.co", d.Website)
			require.NotNil(t, d.Location)
			assert.Equal(t, "4.6", d.Location.LatString())
		})
	}
}

func TestFetchDetails_Degrades(t *testing.T) {
	tests := []struct {
		name string
		resp *google.DetailsResponse
		err  error
	}{
		{name: "not found", resp: &google.DetailsResponse{Status: google.StatusNotFound}},
		{name: "quota", resp: &google.DetailsResponse{Status: google.StatusOverQueryLimit}},
		{name: "no result", resp: &google.DetailsResponse{Status: google.StatusOK}},
		{name: "transport", err: errors.New("i/o timeout")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(t)
			client.On("Details", mock.Anything, "pid").Return(tt.resp, tt.err).Once()

			d := NewDetailFetcher(client, 0).FetchDetails(context.Background(), "pid")
			assert.Equal(t, model.EmptyDetail("pid"), d)
		})
	}
}

func TestFetchDetails_NoPlaceID(t *testing.T) {
	client := mocks.NewMockClient(t)

	d := NewDetailFetcher(client, 0).FetchDetails(context.Background(), "  ")
	assert.Empty(t, d.Phone)
	client.AssertNotCalled(t, "Details", mock.Anything, mock.Anything)
}

func TestLookup_ReturnsStatusError(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Details", mock.Anything, "pid").
		Return(&google.DetailsResponse{Status: google.StatusInvalidRequest, ErrorMessage: "bad fields"}, nil).Once()

	_, err := NewDetailFetcher(client, 0).Lookup(context.Background(), "pid")

	var se *google.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "details", se.Endpoint)
	assert.Equal(t, google.StatusInvalidRequest, se.Status)
}
