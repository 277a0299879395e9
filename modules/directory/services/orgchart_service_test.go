package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/orgchart"
)

func TestOrgChartService_Prepare(t *testing.T) {
	m := metrics.NewSyncMetrics()
	svc := NewOrgChartService(0, "", m)
	charts := svc.Prepare(context.Background(), fixtureEmployees())

	want := orgchart.Forest{
		{
			Name: "Dept A",
			Children: []orgchart.OrgNode{
				{Name: "Branch 1", Children: []orgchart.OrgNode{{Name: "Team X", OrgID: "1"}}},
				{Name: "Branch 2", OrgID: "0"},
			},
		},
		{
			Name:     "Dept B",
			Children: []orgchart.OrgNode{{Name: "Unit"}},
		},
	}
	assert.Equal(t, want, charts.EN)
	assert.Equal(t, charts.EN, charts.Forest(domain.LangEN))

	require.Len(t, charts.FR, 2)
	assert.Equal(t, "Min A", charts.FR[0].Name)
	team, ok := charts.FR[0].Resolve([]int{0, 0})
	require.True(t, ok)
	assert.Equal(t, "Équipe X", team.Name)
	assert.Equal(t, "1", team.OrgID)
	assert.Equal(t, charts.FR, charts.Forest(domain.LangFR))

	require.Len(t, charts.Unmatched[domain.LangEN], 1)
	assert.Equal(t, "Unit", charts.Unmatched[domain.LangEN][0].Name)
	assert.Equal(t, "Dept B", charts.Unmatched[domain.LangEN][0].Root)
	assert.Empty(t, charts.Unmatched[domain.LangFR])

	assert.InDelta(t, 3, testutil.ToFloat64(m.RowsParsed.WithLabelValues("en")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.RowsDropped.WithLabelValues("en")), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(m.ChartNodes.WithLabelValues("en")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UnmatchedLeaves.WithLabelValues("en")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.UnmatchedLeaves.WithLabelValues("fr")), 0)
}

func TestOrgChartService_HonoursDepth(t *testing.T) {
	svc := NewOrgChartService(1, ":", nil)
	charts := svc.Prepare(context.Background(), fixtureEmployees())

	require.Len(t, charts.EN, 2)
	branch1, ok := charts.EN[0].Resolve([]int{0})
	require.True(t, ok)
	assert.True(t, branch1.IsLeaf())
}

func TestSuggest(t *testing.T) {
	got := suggest("unit", []string{"Unit (old)", "Branch 2", "Community Unit"}, 3)
	assert.ElementsMatch(t, []string{"Unit (old)", "Community Unit"}, got)

	got = suggest("a", []string{"ab", "abc", "abcd", "abcde"}, 2)
	assert.Len(t, got, 2)
}
