package domain

import "context"

// DatasetSource yields the raw GEDS extract.
type DatasetSource interface {
	Load(ctx context.Context) (Dataset, error)
}

// TableStore replaces the relational tables in one go.
type TableStore interface {
	ReplaceAll(ctx context.Context, tables Tables) error
}

type IndexStats struct {
	Indexed int
	Failed  int
}

// Indexer bulk-loads documents into the search engine.
type Indexer interface {
	IndexEmployees(ctx context.Context, docs []EmployeeDocument) (IndexStats, error)
	IndexOrganizations(ctx context.Context, docs []OrganizationDocument) (IndexStats, error)
}

// RunRecorder keeps the history of sync runs.
type RunRecorder interface {
	Record(ctx context.Context, run SyncRun) error
	Recent(ctx context.Context, limit int) ([]SyncRun, error)
}
