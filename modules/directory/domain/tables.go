package domain

import (
	"encoding/json"
)

type Department struct {
	DeptID       int
	DepartmentEN string
	DepartmentFR string
	OrgChartEN   json.RawMessage
	OrgChartFR   json.RawMessage
}

type Organization struct {
	OrgID        int
	OrgNameEN    string
	OrgNameFR    string
	DeptID       int
	DepartmentEN string
	DepartmentFR string
	// ChartPath is only meaningful when PathFound is set.
	ChartPath []int
	PathFound bool
}

// ChartPathJSON renders the path as a JSON array, or nil when unresolved.
func (o *Organization) ChartPathJSON() *string {
	if !o.PathFound {
		return nil
	}
	path := o.ChartPath
	if path == nil {
		path = []int{}
	}
	b, _ := json.Marshal(path)
	s := string(b)
	return &s
}

// Tables is everything the relational store receives for one run.
type Tables struct {
	Employees     []Employee
	Departments   []Department
	Organizations []Organization
}

// Dataset is a raw tabular extract: one header and records of equal width.
type Dataset struct {
	Header  []string
	Records [][]string
}

func (d Dataset) Len() int {
	return len(d.Records)
}
