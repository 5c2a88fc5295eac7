package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldatlas/internal/domain"
	"fieldatlas/internal/gazetteer"
	"fieldatlas/internal/ingest"
	"fieldatlas/internal/keywords"
	"fieldatlas/internal/matcher"
	"fieldatlas/internal/matcher/coord"
	"fieldatlas/internal/matcher/named"
	"fieldatlas/internal/service"
	"fieldatlas/internal/tables"
	"fieldatlas/mocks"
)

type processFixture struct {
	docRepo     *mocks.MockDocumentRepo
	mentionRepo *mocks.MockMentionRepo
	tableRepo   *mocks.MockTableRepo
	keywordRepo *mocks.MockKeywordRepo
	svc         service.ProcessService
}

func newProcessFixture() *processFixture {
	gaz := gazetteer.New([]domain.GazetteerEntry{
		{
			Name:      "Fort Valley Experimental Forest",
			Latitude:  35.217155,
			Longitude: -111.774633,
			Aliases:   domain.StringList{"Fort Valley", "FVEF"},
		},
	})

	f := &processFixture{
		docRepo:     new(mocks.MockDocumentRepo),
		mentionRepo: new(mocks.MockMentionRepo),
		tableRepo:   new(mocks.MockTableRepo),
		keywordRepo: new(mocks.MockKeywordRepo),
	}
	f.svc = service.NewProcessService(
		f.docRepo, f.mentionRepo, f.tableRepo, f.keywordRepo,
		coord.New(coord.DefaultConfig()),
		named.New(named.NewRuleRecognizer(), gaz, 80),
		matcher.NewFuser(0, 0),
		keywords.NewScorer(keywords.Config{}),
		tables.New(tables.DefaultConfig()),
	)
	return f
}

func queuedDocument() *domain.Document {
	return &domain.Document{
		ID:        uuid.New(),
		Name:      "fort-valley-1925",
		MediaType: domain.MediaTypePDF,
		Pages: domain.StringList{
			"Plots at Fort Valley Experimental Forest were sampled near 12S 429500mE 3897400mN in 1925.",
		},
		RawTables: domain.RawTableList{
			{
				TableID:    "p1-t0",
				PageNumber: 1,
				Source:     domain.ExtractorSourcePrimary,
				Headers:    []string{"Plot", "Basal Area"},
				Data:       [][]string{{"A1", "12.4"}, {"B2", "9.1"}},
			},
		},
		ProcessingStatus: domain.ProcessingStatusProcessing,
		ProcessAttempts:  1,
	}
}

func TestProcessDocument_HappyPath(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()

	var gotMentions []domain.LocationMention
	f.mentionRepo.On("ReplaceForDocument", mock.Anything, doc.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			gotMentions = args.Get(2).([]domain.LocationMention)
		}).Return(nil)

	var gotTables []domain.TableCandidate
	f.tableRepo.On("ReplaceForDocument", mock.Anything, doc.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			gotTables = args.Get(2).([]domain.TableCandidate)
		}).Return(nil)

	var gotKeywords []domain.Keyword
	f.keywordRepo.On("ReplaceForDocument", mock.Anything, doc.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			gotKeywords = args.Get(2).([]domain.Keyword)
		}).Return(nil)

	f.docRepo.On("UpdateStatus", mock.Anything, doc).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.ProcessingStatusCompleted, doc.ProcessingStatus)
	assert.Empty(t, doc.ProcessingError)
	require.NotNil(t, doc.ProcessedAt)

	// The UTM pattern, the full gazetteer name and its head span all point
	// at the same site, so fusion collapses them into one corroborated
	// mention at full confidence.
	require.Len(t, gotMentions, 1)
	assert.Equal(t, 1.0, gotMentions[0].Confidence)
	assert.Equal(t, domain.MentionTypeUTM, gotMentions[0].Type)
	require.True(t, gotMentions[0].Resolved())
	assert.InDelta(t, 35.217155, *gotMentions[0].Latitude, 0.001)
	assert.InDelta(t, -111.774633, *gotMentions[0].Longitude, 0.001)
	assert.Equal(t, 1, gotMentions[0].PageNumber)

	require.Len(t, gotTables, 1)
	assert.True(t, gotTables[0].Accepted)
	assert.Equal(t, "p1-t0", gotTables[0].TableID)

	require.NotEmpty(t, gotKeywords)
	assert.Equal(t, 1, gotKeywords[0].Rank)
	assert.Equal(t, 1.0, gotKeywords[0].Score)

	assert.Equal(t, 1, doc.Diagnostics.MentionCount)
	assert.Equal(t, 1, doc.Diagnostics.ResolvedMentions)
	assert.Equal(t, 0, doc.Diagnostics.DroppedOutOfRange)
	assert.Equal(t, 1, doc.Diagnostics.TableCandidateCount)
	assert.Equal(t, 1, doc.Diagnostics.TableAcceptedCount)
	assert.Equal(t, len(gotKeywords), doc.Diagnostics.KeywordCount)

	f.docRepo.AssertExpectations(t)
	f.mentionRepo.AssertExpectations(t)
	f.tableRepo.AssertExpectations(t)
	f.keywordRepo.AssertExpectations(t)
}

func TestProcessDocument_PersistFailureRequeues(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()
	doc.ProcessAttempts = 1

	f.mentionRepo.On("ReplaceForDocument", mock.Anything, doc.ID, mock.Anything).
		Return(errors.New("connection reset"))
	f.docRepo.On("UpdateStatus", mock.Anything, doc).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.ProcessingStatusQueued, doc.ProcessingStatus)
	assert.Contains(t, doc.ProcessingError, "connection reset")
	assert.Nil(t, doc.ProcessedAt)
	f.tableRepo.AssertNotCalled(t, "ReplaceForDocument", mock.Anything, mock.Anything, mock.Anything)
	f.docRepo.AssertExpectations(t)
}

func TestProcessDocument_PersistFailureExhaustsAttempts(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()
	doc.ProcessAttempts = 3

	f.mentionRepo.On("ReplaceForDocument", mock.Anything, doc.ID, mock.Anything).
		Return(errors.New("connection reset"))
	f.docRepo.On("UpdateStatus", mock.Anything, doc).Return(nil)

	f.svc.ProcessDocument(context.Background(), doc, 3)

	assert.Equal(t, domain.ProcessingStatusFailed, doc.ProcessingStatus)
	assert.Contains(t, doc.ProcessingError, "connection reset")
	f.docRepo.AssertExpectations(t)
}

func TestIngest_QueuesDocument(t *testing.T) {
	f := newProcessFixture()
	f.docRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	doc, err := f.svc.Ingest(context.Background(), &ingest.Payload{
		Name:      "watershed-report",
		MediaType: "pdf",
		Pages:     []string{"Streamflow at Beaver Creek."},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingStatusQueued, doc.ProcessingStatus)
	assert.Equal(t, "watershed-report", doc.Name)
	f.docRepo.AssertExpectations(t)
}

func TestIngest_RejectsEmptyDocument(t *testing.T) {
	f := newProcessFixture()

	_, err := f.svc.Ingest(context.Background(), &ingest.Payload{
		Name:      "blank",
		MediaType: "pdf",
		Pages:     []string{"", "   \n"},
	})
	assert.ErrorIs(t, err, domain.ErrDocumentEmpty)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngest_RejectsUnsupportedMediaType(t *testing.T) {
	f := newProcessFixture()

	_, err := f.svc.Ingest(context.Background(), &ingest.Payload{
		Name:      "slides",
		MediaType: "pptx",
		Pages:     []string{"some text"},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResults_RequiresCompletedDocument(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()
	doc.ProcessingStatus = domain.ProcessingStatusQueued
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.svc.Results(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotProcessed)
	f.mentionRepo.AssertNotCalled(t, "ListByDocument", mock.Anything, mock.Anything)
}

func TestResults_BundlesAllExtractions(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()
	doc.ProcessingStatus = domain.ProcessingStatusCompleted

	mentions := []domain.LocationMention{{Text: "Fort Valley", Confidence: 0.965}}
	tbls := []domain.TableCandidate{{TableID: "p1-t0", Accepted: true}}
	kws := []domain.Keyword{{Term: "runoff", Score: 1.0, Rank: 1}}

	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	f.mentionRepo.On("ListByDocument", mock.Anything, doc.ID).Return(mentions, nil)
	f.tableRepo.On("ListByDocument", mock.Anything, doc.ID).Return(tbls, nil)
	f.keywordRepo.On("ListByDocument", mock.Anything, doc.ID).Return(kws, nil)

	got, err := f.svc.Results(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got.Document)
	assert.Equal(t, mentions, got.Mentions)
	assert.Equal(t, tbls, got.Tables)
	assert.Equal(t, kws, got.Keywords)
}

func TestReprocess_RequeuesAndReturnsDocument(t *testing.T) {
	f := newProcessFixture()
	doc := queuedDocument()
	f.docRepo.On("Requeue", mock.Anything, doc.ID).Return(nil)
	f.docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)

	got, err := f.svc.Reprocess(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	f.docRepo.AssertExpectations(t)
}

func TestReprocess_UnknownDocument(t *testing.T) {
	f := newProcessFixture()
	id := uuid.New()
	f.docRepo.On("Requeue", mock.Anything, id).Return(domain.ErrDocumentNotFound)

	_, err := f.svc.Reprocess(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDelete_RemovesDocumentAndExtractions(t *testing.T) {
	f := newProcessFixture()
	id := uuid.New()
	f.mentionRepo.On("DeleteByDocument", mock.Anything, id).Return(nil)
	f.tableRepo.On("DeleteByDocument", mock.Anything, id).Return(nil)
	f.keywordRepo.On("DeleteByDocument", mock.Anything, id).Return(nil)
	f.docRepo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), id))
	f.docRepo.AssertExpectations(t)
	f.mentionRepo.AssertExpectations(t)
	f.tableRepo.AssertExpectations(t)
	f.keywordRepo.AssertExpectations(t)
}
