package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldatlas/internal/domain"
)

func TestWriteMentions(t *testing.T) {
	docID := uuid.New()
	lat, lon := 35.217155, -111.774633
	zone := "12S"
	created := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	resolved := domain.LocationMention{
		DocumentID: docID,
		Text:       "12S 429500mE 3897400mN",
		Type:       domain.MentionTypeUTM,
		Latitude:   &lat,
		Longitude:  &lon,
		UTMZone:    &zone,
		Confidence: 0.97,
		PageNumber: 3,
		Context:    "gauge installed at 12S 429500mE 3897400mN in 1925",
		CreatedAt:  created,
	}
	unresolved := domain.LocationMention{
		DocumentID: docID,
		Text:       "Walnut Gulch",
		Type:       domain.MentionTypeNamedLocation,
		Confidence: 0.4,
		PageNumber: 5,
		CreatedAt:  created,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteMentions([]domain.LocationMention{resolved, unresolved}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Document ID", "Text", "Type", "Latitude", "Longitude",
		"UTM Zone", "Confidence", "Page", "Context", "Created At",
	}, records[0])

	assert.Equal(t, []string{
		docID.String(),
		"12S 429500mE 3897400mN",
		"utm",
		"35.217155",
		"-111.774633",
		"12S",
		"0.970",
		"3",
		"gauge installed at 12S 429500mE 3897400mN in 1925",
		"2026-08-25T10:30:00Z",
	}, records[1])

	// Unresolved mentions leave coordinates and zone blank, not zero.
	assert.Equal(t, "Walnut Gulch", records[2][1])
	assert.Empty(t, records[2][3])
	assert.Empty(t, records[2][4])
	assert.Empty(t, records[2][5])
	assert.Equal(t, "0.400", records[2][6])
}

func TestWriteTables(t *testing.T) {
	docID := uuid.New()
	created := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	tbl := domain.TableCandidate{
		TableID:         "p3-t1",
		DocumentID:      docID,
		PageNumber:      3,
		ExtractorSource: domain.ExtractorSourcePrimary,
		Rows:            2,
		Columns:         2,
		Headers:         domain.StringList{"Plot", "Basal Area"},
		QualityScore:    1.0,
		Accepted:        true,
		CreatedAt:       created,
	}

	var buf bytes.Buffer
	w := NewTableWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteTables([]domain.TableCandidate{tbl}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Document ID", "Table ID", "Page", "Source", "Rows",
		"Columns", "Quality Score", "Headers", "Created At",
	}, records[0])

	assert.Equal(t, []string{
		docID.String(),
		"p3-t1",
		"3",
		"primary",
		"2",
		"2",
		"1.000",
		"Plot | Basal Area",
		"2026-08-25T10:30:00Z",
	}, records[1])
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"fort valley report", "fort_valley_report"},
		{"1925: Streamflow (v2).pdf", "1925_Streamflow_v2_pdf"},
		{"__already__clean__", "already_clean"},
		{"simple-name_ok", "simple-name_ok"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in))
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("fort valley report", "csv")
	want := fmt.Sprintf("fort_valley_report_%s.csv", time.Now().Format("2006-01-02"))
	assert.Equal(t, want, got)
	assert.True(t, strings.HasSuffix(got, ".csv"))
}
