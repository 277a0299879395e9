package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/sirupsen/logrus"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

const maxLoggedFailures = 10

type Options struct {
	URL        string
	Timeout    time.Duration
	NumWorkers int
	FlushBytes int
}

// Indexer bulk-loads documents into Elasticsearch, one index per document
// kind, keyed by the table identifier.
type Indexer struct {
	es   *elasticsearch.Client
	opts Options
}

func NewIndexer(opts Options) (*Indexer, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("elasticsearch url is not configured")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.FlushBytes <= 0 {
		opts.FlushBytes = 5 << 20
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Transport: &http.Transport{ResponseHeaderTimeout: opts.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Indexer{es: es, opts: opts}, nil
}

type document struct {
	id   string
	body any
}

func (x *Indexer) IndexEmployees(ctx context.Context, docs []domain.EmployeeDocument) (domain.IndexStats, error) {
	items := make([]document, len(docs))
	for i := range docs {
		items[i] = document{id: strconv.Itoa(docs[i].EmployeeID), body: &docs[i]}
	}
	return x.bulk(ctx, domain.EmployeeIndex, items)
}

func (x *Indexer) IndexOrganizations(ctx context.Context, docs []domain.OrganizationDocument) (domain.IndexStats, error) {
	items := make([]document, len(docs))
	for i := range docs {
		items[i] = document{id: strconv.Itoa(docs[i].OrgID), body: &docs[i]}
	}
	return x.bulk(ctx, domain.OrganizationIndex, items)
}

func (x *Indexer) bulk(ctx context.Context, index string, docs []document) (domain.IndexStats, error) {
	ctx, span := tracing.Start(ctx, "search.bulk")
	defer span.End()
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{"stage": "index", "index": index})

	var logged atomic.Int32
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     x.es,
		Index:      index,
		NumWorkers: x.opts.NumWorkers,
		FlushBytes: x.opts.FlushBytes,
		OnError: func(_ context.Context, err error) {
			logger.WithError(err).Error("bulk request failed")
		},
	})
	if err != nil {
		return domain.IndexStats{}, err
	}

	onFailure := func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
		if logged.Add(1) > maxLoggedFailures {
			return
		}
		entry := logger.WithField("id", item.DocumentID)
		if err != nil {
			entry.WithError(err).Warn("document not indexed")
			return
		}
		entry.WithField("reason", res.Error.Reason).Warn("document not indexed")
	}

	for _, d := range docs {
		body, err := json.Marshal(d.body)
		if err != nil {
			_ = bi.Close(ctx)
			return domain.IndexStats{}, fmt.Errorf("encode %s/%s: %w", index, d.id, err)
		}
		if err := bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.id,
			Body:       bytes.NewReader(body),
			OnFailure:  onFailure,
		}); err != nil {
			_ = bi.Close(ctx)
			return domain.IndexStats{}, fmt.Errorf("queue %s/%s: %w", index, d.id, err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return domain.IndexStats{}, fmt.Errorf("flush %s: %w", index, err)
	}

	st := bi.Stats()
	return domain.IndexStats{Indexed: int(st.NumFlushed), Failed: int(st.NumFailed)}, nil
}
