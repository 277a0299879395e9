package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

const maxSheetName = 31

// Table is one sheet worth of rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

var organizationHeader = []string{
	"org_id", "org_name_en", "org_name_fr", "dept_id", "department_en", "department_fr", "org_chart_path",
}

// OrganizationsTable lists organizations with their department names. An
// unresolved chart path is left blank.
func OrganizationsTable(orgs []domain.Organization, depts []domain.Department) Table {
	names := make(map[int]*domain.Department, len(depts))
	for i := range depts {
		if _, ok := names[depts[i].DeptID]; !ok {
			names[depts[i].DeptID] = &depts[i]
		}
	}

	t := Table{Name: "organizations", Header: organizationHeader}
	for i := range orgs {
		o := &orgs[i]
		en, fr := o.DepartmentEN, o.DepartmentFR
		if d, ok := names[o.DeptID]; ok {
			en, fr = d.DepartmentEN, d.DepartmentFR
		}
		path := ""
		if p := o.ChartPathJSON(); p != nil {
			path = *p
		}
		t.Rows = append(t.Rows, []any{o.OrgID, o.OrgNameEN, o.OrgNameFR, o.DeptID, en, fr, path})
	}
	return t
}

// XLSX renders each table on its own sheet, in order.
func XLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		name := sheetName(t.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, name, t, header); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(t.Header) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheetName(name string, i int) string {
	if name == "" {
		name = "Sheet" + strconv.Itoa(i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// CSV writes the table with its header row.
func CSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	rec := make([]string, len(t.Header))
	for _, row := range t.Rows {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, fmt.Sprint(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes is CSV into memory.
func CSVBytes(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := CSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
