package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

func sampleTable() Table {
	return OrganizationsTable(
		[]domain.Organization{
			{OrgID: 1, OrgNameEN: "Team X", OrgNameFR: "Équipe X", DeptID: 0, PathFound: true, ChartPath: []int{0, 0}},
			{OrgID: 2, OrgNameEN: "Unit", OrgNameFR: "Unité", DeptID: 1, DepartmentEN: "Dept B"},
		},
		[]domain.Department{{DeptID: 0, DepartmentEN: "Dept A", DepartmentFR: "Min A"}},
	)
}

func TestOrganizationsTable(t *testing.T) {
	tbl := sampleTable()
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []any{1, "Team X", "Équipe X", 0, "Dept A", "Min A", "[0,0]"}, tbl.Rows[0])
	assert.Equal(t, []any{2, "Unit", "Unité", 1, "Dept B", "", ""}, tbl.Rows[1])
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleTable(), Table{Name: strings.Repeat("x", 40), Header: []string{"a"}, Rows: [][]any{{"b"}}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"organizations", strings.Repeat("x", 31)}, f.GetSheetList())

	rows, err := f.GetRows("organizations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, organizationHeader, rows[0])
	assert.Equal(t, []string{"1", "Team X", "Équipe X", "0", "Dept A", "Min A", "[0,0]"}, rows[1])
	assert.Equal(t, "Unité", rows[2][2])
}

func TestXLSX_NoTables(t *testing.T) {
	_, err := XLSX()
	require.Error(t, err)
}

func TestCSV(t *testing.T) {
	data, err := CSVBytes(sampleTable())
	require.NoError(t, err)
	assert.Equal(t,
		"org_id,org_name_en,org_name_fr,dept_id,department_en,department_fr,org_chart_path\n"+
			"1,Team X,Équipe X,0,Dept A,Min A,\"[0,0]\"\n"+
			"2,Unit,Unité,1,Dept B,,\n",
		string(data),
	)
}
