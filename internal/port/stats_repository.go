package port

import "context"

// ArchiveStats is an aggregate snapshot over the whole archive.
type ArchiveStats struct {
	DocumentsByStatus map[string]int `json:"documents_by_status"`
	MentionsByType    map[string]int `json:"mentions_by_type"`
	ResolvedMentions  int            `json:"resolved_mentions"`
	AcceptedTables    int            `json:"accepted_tables"`
	Keywords          int            `json:"keywords"`
	GazetteerEntries  int            `json:"gazetteer_entries"`
}

// StatsRepository defines the contract for archive-level aggregates.
type StatsRepository interface {
	Snapshot(ctx context.Context) (*ArchiveStats, error)
}
