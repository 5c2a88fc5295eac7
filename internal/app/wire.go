// Package app wires configuration into the extraction pipeline. The server
// and batch commands share this assembly so both run identical semantics.
package app

import (
	"context"
	"fmt"
	"log"

	"fieldatlas/internal/config"
	"fieldatlas/internal/gazetteer"
	"fieldatlas/internal/keywords"
	"fieldatlas/internal/matcher"
	"fieldatlas/internal/matcher/coord"
	"fieldatlas/internal/matcher/named"
	"fieldatlas/internal/port"
	"fieldatlas/internal/service"
	"fieldatlas/internal/tables"
)

// LoadGazetteer pulls the seeded gazetteer into memory once per run. An
// empty gazetteer is a warning, not an error: coordinate matching still
// works without it.
func LoadGazetteer(ctx context.Context, gazRepo port.GazetteerRepository, cfg *config.Config) (*gazetteer.Gazetteer, error) {
	entries, err := gazRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gazetteer: %w", err)
	}
	if len(entries) == 0 {
		log.Printf("warning: gazetteer is empty; named locations will not resolve (run seedgazetteer)")
	} else {
		log.Printf("loaded %d gazetteer entries", len(entries))
	}
	return gazetteer.New(entries, gazetteer.WithThreshold(cfg.Geo.SimilarityThreshold)), nil
}

// BuildProcessService assembles the matchers, fuser, keyword scorer and
// table filter from config.
func BuildProcessService(
	cfg *config.Config,
	docRepo port.DocumentRepository,
	mentionRepo port.MentionRepository,
	tableRepo port.TableRepository,
	keywordRepo port.KeywordRepository,
	gaz *gazetteer.Gazetteer,
) service.ProcessService {
	coordMatcher := coord.New(coord.Config{
		UTMConfidence:       cfg.Geo.UTMConfidence,
		LatLongConfidence:   cfg.Geo.LatLongConfidence,
		AmbiguousConfidence: cfg.Geo.AmbiguousConfidence,
		ContextRadius:       cfg.Geo.ContextRadius,
	})
	namedMatcher := named.New(named.NewRuleRecognizer(), gaz, cfg.Geo.ContextRadius)
	fuser := matcher.NewFuser(cfg.Geo.CoordinateTolerance, cfg.Geo.CorroborationBoost)
	scorer := keywords.NewScorer(keywords.Config{
		Vocabulary: cfg.Keywords.Vocabulary,
		MaxTerms:   cfg.Keywords.MaxTerms,
		MinLength:  cfg.Keywords.MinLength,
		VocabBoost: cfg.Keywords.VocabBoost,
	})
	tableFilter := tables.New(tables.Config{
		Threshold:        cfg.Tables.Threshold,
		OverlapThreshold: cfg.Tables.OverlapThreshold,
		MinRows:          cfg.Tables.MinRows,
		MinColumns:       cfg.Tables.MinColumns,
	})

	return service.NewProcessService(
		docRepo, mentionRepo, tableRepo, keywordRepo,
		coordMatcher, namedMatcher, fuser, scorer, tableFilter,
	)
}
