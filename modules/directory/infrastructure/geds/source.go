package geds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

const maxArchiveBytes = 512 << 20

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// Download fetches the zipped extract at url.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(body) > maxArchiveBytes {
		return nil, fmt.Errorf("get %s: archive larger than %d bytes", url, maxArchiveBytes)
	}
	return body, nil
}

// Source serves the GEDS extract from the local cache, downloading it when
// the cache is missing or Force is set.
type Source struct {
	URL    string
	Subset string
	Force  bool
	Cache  Cache
	Client *http.Client
}

func (s *Source) Load(ctx context.Context) (domain.Dataset, error) {
	logger := composables.UseLogger(ctx).WithField("stage", "load")

	if !s.Force && s.Cache.Exists() {
		logger.WithField("path", s.Cache.Path).Info("geds data is cached, loading from csv")
		ds, err := s.Cache.Load()
		if err != nil {
			return domain.Dataset{}, err
		}
		return FilterSubset(ds, domain.SubsetColumn, s.Subset)
	}

	ds, err := s.Fetch(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	if err := s.Cache.Save(ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("cache extract: %w", err)
	}
	return FilterSubset(ds, domain.SubsetColumn, s.Subset)
}

// Fetch downloads and decodes the extract without touching the cache.
func (s *Source) Fetch(ctx context.Context) (domain.Dataset, error) {
	ctx, span := tracing.Start(ctx, "geds.fetch")
	defer span.End()
	logger := composables.UseLogger(ctx).WithField("stage", "fetch")

	if s.URL == "" {
		return domain.Dataset{}, fmt.Errorf("geds data url is not configured")
	}
	client := s.Client
	if client == nil {
		client = NewHTTPClient(0)
	}
	body, err := Download(ctx, client, s.URL)
	if err != nil {
		return domain.Dataset{}, err
	}
	ds, stats, err := ExtractZip(body)
	if err != nil {
		return domain.Dataset{}, err
	}
	logger.WithFields(logrus.Fields{
		"bytes":   len(body),
		"records": ds.Len(),
		"dropped": stats.Dropped,
	}).Info("geds extract downloaded")
	return ds, nil
}
