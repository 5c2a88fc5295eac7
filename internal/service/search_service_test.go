package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
	"fieldatlas/internal/service"
	"fieldatlas/mocks"
)

func resolvedMention(text string, lat, lon float64) domain.LocationMention {
	return domain.LocationMention{
		Text:      text,
		Type:      domain.MentionTypeNamedLocation,
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func TestByBoundingBox_DelegatesToRepository(t *testing.T) {
	mentionRepo := new(mocks.MockMentionRepo)
	keywordRepo := new(mocks.MockKeywordRepo)
	svc := service.NewSearchService(mentionRepo, keywordRepo)

	box := port.BoundingBox{MinLat: 34, MaxLat: 36, MinLon: -112, MaxLon: -110}
	want := []domain.LocationMention{resolvedMention("Fort Valley", 35.217155, -111.774633)}
	mentionRepo.On("SearchByBoundingBox", mock.Anything, box, 0, 50).Return(want, 1, nil)

	got, total, err := svc.ByBoundingBox(context.Background(), box, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, want, got)
	mentionRepo.AssertExpectations(t)
}

func TestByBoundingBox_InvalidBox(t *testing.T) {
	svc := service.NewSearchService(new(mocks.MockMentionRepo), new(mocks.MockKeywordRepo))

	cases := []struct {
		name string
		box  port.BoundingBox
	}{
		{"inverted latitudes", port.BoundingBox{MinLat: 36, MaxLat: 34, MinLon: -112, MaxLon: -110}},
		{"inverted longitudes", port.BoundingBox{MinLat: 34, MaxLat: 36, MinLon: -110, MaxLon: -112}},
		{"latitude out of range", port.BoundingBox{MinLat: -95, MaxLat: 36, MinLon: -112, MaxLon: -110}},
		{"longitude out of range", port.BoundingBox{MinLat: 34, MaxLat: 36, MinLon: -112, MaxLon: 200}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.ByBoundingBox(context.Background(), tc.box, 0, 50)
			assert.ErrorIs(t, err, domain.ErrInvalidSearchArea)
		})
	}
}

func TestByRadius_FiltersBoxCorners(t *testing.T) {
	mentionRepo := new(mocks.MockMentionRepo)
	svc := service.NewSearchService(mentionRepo, new(mocks.MockKeywordRepo))

	// Flagstaff-area center. The repository returns the circumscribing-box
	// page including a corner point beyond the circle; only the near
	// mention survives the great-circle cut.
	near := resolvedMention("Fort Valley", 35.217155, -111.774633)
	corner := resolvedMention("corner", 35.6, -111.3)
	mentionRepo.On("SearchByBoundingBox", mock.Anything, mock.AnythingOfType("port.BoundingBox"), 0, 50).
		Return([]domain.LocationMention{near, corner}, 2, nil)

	got, total, err := svc.ByRadius(context.Background(), 35.2, -111.75, 25, 0, 50)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Fort Valley", got[0].Text)
	mentionRepo.AssertExpectations(t)
}

func TestByRadius_InvalidArguments(t *testing.T) {
	svc := service.NewSearchService(new(mocks.MockMentionRepo), new(mocks.MockKeywordRepo))

	_, _, err := svc.ByRadius(context.Background(), 95, -111.75, 25, 0, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidSearchArea)

	_, _, err = svc.ByRadius(context.Background(), 35.2, -111.75, 0, 0, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidSearchArea)

	_, _, err = svc.ByRadius(context.Background(), 35.2, -111.75, -10, 0, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidSearchArea)
}

func TestByTopic_DelegatesToRepository(t *testing.T) {
	keywordRepo := new(mocks.MockKeywordRepo)
	svc := service.NewSearchService(new(mocks.MockMentionRepo), keywordRepo)

	want := []domain.Keyword{{Term: "runoff", Score: 1.0, Rank: 1}}
	keywordRepo.On("SearchByTerm", mock.Anything, "runoff", 0, 50).Return(want, 1, nil)

	got, total, err := svc.ByTopic(context.Background(), "runoff", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, want, got)
}

func TestByTopic_EmptyTerm(t *testing.T) {
	svc := service.NewSearchService(new(mocks.MockMentionRepo), new(mocks.MockKeywordRepo))

	_, _, err := svc.ByTopic(context.Background(), "", 0, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidSearchArea)
}
