package services

import (
	"context"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/orgchart"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

const maxSuggestions = 3

// OrgCharts holds one forest per language.
type OrgCharts struct {
	EN orgchart.Forest
	FR orgchart.Forest

	Unmatched map[domain.Lang][]orgchart.Diagnostic
}

func (c *OrgCharts) Forest(lang domain.Lang) orgchart.Forest {
	if lang == domain.LangFR {
		return c.FR
	}
	return c.EN
}

type OrgChartService struct {
	treeDepth int
	separator string
	metrics   *metrics.SyncMetrics
}

func NewOrgChartService(treeDepth int, separator string, m *metrics.SyncMetrics) *OrgChartService {
	if treeDepth <= 0 {
		treeDepth = orgchart.DefaultTreeDepth
	}
	if separator == "" {
		separator = orgchart.DefaultSeparator
	}
	return &OrgChartService{treeDepth: treeDepth, separator: separator, metrics: m}
}

// Prepare builds the English and French forests and attaches org ids to
// their leaves. The two builds share nothing.
func (s *OrgChartService) Prepare(ctx context.Context, employees []domain.Employee) *OrgCharts {
	charts := &OrgCharts{Unmatched: map[domain.Lang][]orgchart.Diagnostic{}}
	for _, lang := range domain.Langs {
		forest, unmatched := s.build(ctx, employees, lang)
		if lang == domain.LangFR {
			charts.FR = forest
		} else {
			charts.EN = forest
		}
		charts.Unmatched[lang] = unmatched
	}
	return charts
}

func (s *OrgChartService) build(ctx context.Context, employees []domain.Employee, lang domain.Lang) (orgchart.Forest, []orgchart.Diagnostic) {
	ctx, span := tracing.Start(ctx, "orgchart.build", attribute.String("lang", string(lang)))
	defer span.End()
	logger := composables.UseLogger(ctx).WithField("lang", lang)

	raws := make([]string, 0, len(employees))
	for i := range employees {
		raws = append(raws, orgchart.StripAnnotations(employees[i].OrgStructure(lang)))
	}
	raws = orgchart.DistinctPaths(raws)

	rows := orgchart.ParsePaths(raws, s.separator, s.treeDepth)
	kept := orgchart.Deduplicate(rows)

	b := orgchart.NewBuilder()
	b.InsertAll(kept)
	forest := b.Forest()

	index := orgchart.NewNameIndex()
	for i := range employees {
		index.Add(employees[i].OrgName(lang), employees[i].OrgIDString())
	}
	unmatched := orgchart.AttachOrgIDs(forest, index)

	for _, d := range unmatched {
		logger.WithFields(logrus.Fields{
			"department":  d.Root,
			"name":        d.Name,
			"path":        d.Path,
			"suggestions": suggest(d.Name, index.Names(), maxSuggestions),
		}).Warn("org chart leaf has no org id")
	}
	logger.WithFields(logrus.Fields{
		"paths":     len(rows),
		"kept":      len(kept),
		"roots":     len(forest),
		"nodes":     forest.Size(),
		"unmatched": len(unmatched),
	}).Info("org chart built")

	if s.metrics != nil {
		l := string(lang)
		s.metrics.RowsParsed.WithLabelValues(l).Add(float64(len(rows)))
		s.metrics.RowsDropped.WithLabelValues(l).Add(float64(len(rows) - len(kept)))
		s.metrics.ChartNodes.WithLabelValues(l).Set(float64(forest.Size()))
		s.metrics.UnmatchedLeaves.WithLabelValues(l).Add(float64(len(unmatched)))
	}
	span.SetAttributes(
		attribute.Int("orgchart.roots", len(forest)),
		attribute.Int("orgchart.unmatched", len(unmatched)),
	)
	return forest, unmatched
}

// suggest returns up to n known names resembling name, for diagnostics only.
func suggest(name string, candidates []string, n int) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	sort.Sort(ranks)
	out := make([]string, 0, n)
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
