package service

import (
	"context"
	"math"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/port"
)

const earthRadiusKm = 6371.0

// SearchService provides spatial and thematic search over extracted results.
type SearchService interface {
	ByBoundingBox(ctx context.Context, box port.BoundingBox, offset, limit int) ([]domain.LocationMention, int, error)
	ByRadius(ctx context.Context, lat, lon, radiusKm float64, offset, limit int) ([]domain.LocationMention, int, error)
	ByTopic(ctx context.Context, term string, offset, limit int) ([]domain.Keyword, int, error)
}

type searchService struct {
	mentionRepo port.MentionRepository
	keywordRepo port.KeywordRepository
}

// NewSearchService creates a new SearchService implementation.
func NewSearchService(mentionRepo port.MentionRepository, keywordRepo port.KeywordRepository) SearchService {
	return &searchService{mentionRepo: mentionRepo, keywordRepo: keywordRepo}
}

func (s *searchService) ByBoundingBox(ctx context.Context, box port.BoundingBox, offset, limit int) ([]domain.LocationMention, int, error) {
	if err := validateBox(box); err != nil {
		return nil, 0, err
	}
	return s.mentionRepo.SearchByBoundingBox(ctx, box, offset, limit)
}

// ByRadius searches within radiusKm of a center point. The database query
// uses the bounding box circumscribing the circle; the exact great-circle
// cut happens in memory on that page of results.
func (s *searchService) ByRadius(ctx context.Context, lat, lon, radiusKm float64, offset, limit int) ([]domain.LocationMention, int, error) {
	if !domain.ValidLatLong(lat, lon) || radiusKm <= 0 {
		return nil, 0, domain.ErrInvalidSearchArea
	}

	dLat := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	dLon := dLat
	if cos := math.Cos(lat * math.Pi / 180); cos > 0.01 {
		dLon = dLat / cos
	}
	box := port.BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLon: math.Max(lon-dLon, -180),
		MaxLon: math.Min(lon+dLon, 180),
	}

	mentions, _, err := s.mentionRepo.SearchByBoundingBox(ctx, box, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	within := mentions[:0]
	for i := range mentions {
		mlat, mlon, ok := mentions[i].Coordinates()
		if !ok {
			continue
		}
		if haversineKm(lat, lon, mlat, mlon) <= radiusKm {
			within = append(within, mentions[i])
		}
	}
	return within, len(within), nil
}

func (s *searchService) ByTopic(ctx context.Context, term string, offset, limit int) ([]domain.Keyword, int, error) {
	if term == "" {
		return nil, 0, domain.ErrInvalidSearchArea
	}
	return s.keywordRepo.SearchByTerm(ctx, term, offset, limit)
}

func validateBox(box port.BoundingBox) error {
	if box.MinLat > box.MaxLat || box.MinLon > box.MaxLon {
		return domain.ErrInvalidSearchArea
	}
	if !domain.ValidLatLong(box.MinLat, box.MinLon) || !domain.ValidLatLong(box.MaxLat, box.MaxLon) {
		return domain.ErrInvalidSearchArea
	}
	return nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
