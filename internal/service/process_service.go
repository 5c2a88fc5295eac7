package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/ingest"
	"fieldatlas/internal/keywords"
	"fieldatlas/internal/matcher"
	"fieldatlas/internal/matcher/coord"
	"fieldatlas/internal/matcher/named"
	"fieldatlas/internal/port"
	"fieldatlas/internal/tables"
)

const defaultMaxProcessAttempts = 3

// DocumentResults bundles everything the pipeline extracted for one document.
type DocumentResults struct {
	Document *domain.Document         `json:"document"`
	Mentions []domain.LocationMention `json:"mentions"`
	Tables   []domain.TableCandidate  `json:"tables"`
	Keywords []domain.Keyword         `json:"keywords"`
}

// ProcessService defines the document ingestion and extraction contract.
type ProcessService interface {
	Ingest(ctx context.Context, payload *ingest.Payload) (*domain.Document, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, status domain.ProcessingStatus, offset, limit int) ([]domain.Document, int, error)
	Results(ctx context.Context, docID uuid.UUID) (*DocumentResults, error)
	Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	Delete(ctx context.Context, docID uuid.UUID) error
	// ProcessDocument runs the extraction pipeline for one claimed document.
	// It never returns an error: extraction problems are absorbed into the
	// document's diagnostics, and persistence failures requeue or fail the
	// document depending on remaining attempts.
	ProcessDocument(ctx context.Context, doc *domain.Document, maxAttempts int)
}

type processService struct {
	docRepo      port.DocumentRepository
	mentionRepo  port.MentionRepository
	tableRepo    port.TableRepository
	keywordRepo  port.KeywordRepository
	coordMatcher *coord.Matcher
	namedMatcher *named.Matcher
	fuser        *matcher.Fuser
	scorer       *keywords.Scorer
	tableFilter  *tables.Filter
}

// NewProcessService creates a new ProcessService implementation.
func NewProcessService(
	docRepo port.DocumentRepository,
	mentionRepo port.MentionRepository,
	tableRepo port.TableRepository,
	keywordRepo port.KeywordRepository,
	coordMatcher *coord.Matcher,
	namedMatcher *named.Matcher,
	fuser *matcher.Fuser,
	scorer *keywords.Scorer,
	tableFilter *tables.Filter,
) ProcessService {
	return &processService{
		docRepo:      docRepo,
		mentionRepo:  mentionRepo,
		tableRepo:    tableRepo,
		keywordRepo:  keywordRepo,
		coordMatcher: coordMatcher,
		namedMatcher: namedMatcher,
		fuser:        fuser,
		scorer:       scorer,
		tableFilter:  tableFilter,
	}
}

func (s *processService) Ingest(ctx context.Context, payload *ingest.Payload) (*domain.Document, error) {
	doc, err := payload.ToDocument()
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	log.Printf("processService.Ingest: queued document %s (%s, %d pages, %d table candidates)",
		doc.ID, doc.Name, len(doc.Pages), len(doc.RawTables))
	return doc, nil
}

func (s *processService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *processService) List(ctx context.Context, status domain.ProcessingStatus, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, status, offset, limit)
}

func (s *processService) Results(ctx context.Context, docID uuid.UUID) (*DocumentResults, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.ProcessingStatus != domain.ProcessingStatusCompleted {
		return nil, domain.ErrDocumentNotProcessed
	}

	mentions, err := s.mentionRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	tbls, err := s.tableRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	kws, err := s.keywordRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	return &DocumentResults{
		Document: doc,
		Mentions: mentions,
		Tables:   tbls,
		Keywords: kws,
	}, nil
}

func (s *processService) Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	if err := s.docRepo.Requeue(ctx, docID); err != nil {
		return nil, err
	}
	return s.docRepo.GetByID(ctx, docID)
}

func (s *processService) Delete(ctx context.Context, docID uuid.UUID) error {
	if err := s.mentionRepo.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	if err := s.tableRepo.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	if err := s.keywordRepo.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	return s.docRepo.Delete(ctx, docID)
}

func (s *processService) ProcessDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxProcessAttempts
	}

	started := time.Now()
	text := doc.FullText()

	// Geographic resolution. Both matchers are fail-open: a matcher that
	// finds nothing, or whose recognizer errors, contributes an empty list.
	coordMentions, coordStats := s.coordMatcher.Match(text)
	namedMentions := s.namedMatcher.Match(ctx, text)
	mentions := s.fuser.Fuse(append(coordMentions, namedMentions...))
	assignPages(doc.Pages, mentions)

	// Thematic keywords.
	scored := s.scorer.Score(text)
	kws := make([]domain.Keyword, 0, len(scored))
	for i, kw := range scored {
		kws = append(kws, domain.Keyword{Term: kw.Term, Score: kw.Score, Rank: i + 1})
	}

	// Table quality filtering over the raw backend candidates.
	candidates := make([]domain.TableCandidate, 0, len(doc.RawTables))
	for _, raw := range doc.RawTables {
		candidates = append(candidates, domain.TableCandidate{
			TableID:         raw.TableID,
			DocumentID:      doc.ID,
			PageNumber:      raw.PageNumber,
			ExtractorSource: raw.Source,
			Headers:         raw.Headers,
			Data:            raw.Data,
		})
	}
	accepted := s.tableFilter.Apply(candidates)

	resolved := 0
	for i := range mentions {
		if mentions[i].Resolved() {
			resolved++
		}
	}
	doc.Diagnostics = domain.Diagnostics{
		MentionCount:        len(mentions),
		ResolvedMentions:    resolved,
		DroppedOutOfRange:   coordStats.DroppedOutOfRange,
		KeywordCount:        len(kws),
		TableCandidateCount: len(candidates),
		TableAcceptedCount:  len(accepted),
		BackendFailures:     doc.BackendFailures,
	}

	if err := s.persistResults(ctx, doc, mentions, accepted, kws); err != nil {
		s.handleProcessFailure(ctx, doc, maxAttempts, err)
		return
	}

	now := time.Now().UTC()
	doc.ProcessingStatus = domain.ProcessingStatusCompleted
	doc.ProcessingError = ""
	doc.ProcessedAt = &now
	if err := s.docRepo.UpdateStatus(ctx, doc); err != nil {
		log.Printf("processService.ProcessDocument: failed to mark %s completed: %v", doc.ID, err)
		return
	}

	log.Printf("processService.ProcessDocument: %s done in %s (%d mentions, %d resolved, %d tables accepted, %d keywords)",
		doc.ID, time.Since(started).Round(time.Millisecond),
		len(mentions), resolved, len(accepted), len(kws))
}

func (s *processService) persistResults(
	ctx context.Context,
	doc *domain.Document,
	mentions []domain.LocationMention,
	accepted []domain.TableCandidate,
	kws []domain.Keyword,
) error {
	if err := s.mentionRepo.ReplaceForDocument(ctx, doc.ID, mentions); err != nil {
		return fmt.Errorf("persisting mentions: %w", err)
	}
	if err := s.tableRepo.ReplaceForDocument(ctx, doc.ID, accepted); err != nil {
		return fmt.Errorf("persisting tables: %w", err)
	}
	if err := s.keywordRepo.ReplaceForDocument(ctx, doc.ID, kws); err != nil {
		return fmt.Errorf("persisting keywords: %w", err)
	}
	return nil
}

// handleProcessFailure requeues the document while attempts remain,
// otherwise marks it failed with the final error recorded.
func (s *processService) handleProcessFailure(ctx context.Context, doc *domain.Document, maxAttempts int, cause error) {
	doc.ProcessingError = cause.Error()
	if doc.ProcessAttempts < maxAttempts {
		log.Printf("processService.ProcessDocument: %s attempt %d/%d failed, requeueing: %v",
			doc.ID, doc.ProcessAttempts, maxAttempts, cause)
		doc.ProcessingStatus = domain.ProcessingStatusQueued
	} else {
		log.Printf("processService.ProcessDocument: %s failed permanently after %d attempts: %v",
			doc.ID, doc.ProcessAttempts, cause)
		doc.ProcessingStatus = domain.ProcessingStatusFailed
	}
	if err := s.docRepo.UpdateStatus(ctx, doc); err != nil {
		log.Printf("processService.ProcessDocument: failed to update status for %s: %v", doc.ID, err)
	}
}

// assignPages maps each mention's character span back to the page it fell
// on, using the same page joining as Document.FullText.
func assignPages(pages []string, mentions []domain.LocationMention) {
	if len(pages) == 0 {
		return
	}
	// starts[i] is the offset of page i within the joined text.
	starts := make([]int, len(pages))
	offset := 0
	for i, p := range pages {
		starts[i] = offset
		offset += len(p) + 1 // joined with "\n"
	}
	for i := range mentions {
		page := 0
		for j := range starts {
			if mentions[i].SpanStart >= starts[j] {
				page = j
			}
		}
		mentions[i].PageNumber = page + 1
	}
}
