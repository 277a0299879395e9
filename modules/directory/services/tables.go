package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/metrics"
	"github.com/gcdevops/geds-sync/pkg/orgchart"
)

var ErrDepartmentNotFound = errors.New("department not found in org chart")

// FindPath searches name inside the root named department. found is false
// when the department exists but holds no such node.
func FindPath(forest orgchart.Forest, department, name string) (path []int, found bool, err error) {
	root, ok := forest.Root(department)
	if !ok {
		return nil, false, errors.Wrap(ErrDepartmentNotFound, department)
	}
	path, found = orgchart.PathTo(name, root)
	return path, found, nil
}

// DepartmentChart returns the JSON of the department's root node. When no
// root carries that name the whole forest is returned instead.
func DepartmentChart(forest orgchart.Forest, department string) (json.RawMessage, error) {
	if root, ok := forest.Root(department); ok {
		return json.Marshal(root)
	}
	return json.Marshal(forest)
}

// BuildDepartments keeps the first row of every distinct department and
// attaches both language charts.
func BuildDepartments(employees []domain.Employee, charts *OrgCharts) ([]domain.Department, error) {
	type key struct {
		id     int
		en, fr string
	}
	seen := map[key]struct{}{}
	var out []domain.Department
	for i := range employees {
		e := &employees[i]
		k := key{e.DeptID, e.DepartmentEN, e.DepartmentFR}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		en, err := DepartmentChart(charts.EN, e.DepartmentEN)
		if err != nil {
			return nil, errors.Wrapf(err, "department %d chart (en)", e.DeptID)
		}
		fr, err := DepartmentChart(charts.FR, e.DepartmentFR)
		if err != nil {
			return nil, errors.Wrapf(err, "department %d chart (fr)", e.DeptID)
		}
		out = append(out, domain.Department{
			DeptID:       e.DeptID,
			DepartmentEN: e.DepartmentEN,
			DepartmentFR: e.DepartmentFR,
			OrgChartEN:   en,
			OrgChartFR:   fr,
		})
	}
	return out, nil
}

// BuildOrganizations keeps the first row of every org id and resolves its
// path inside the department root of the English chart.
func BuildOrganizations(ctx context.Context, employees []domain.Employee, forest orgchart.Forest, m *metrics.SyncMetrics) []domain.Organization {
	logger := composables.UseLogger(ctx)
	seen := map[int]struct{}{}
	var out []domain.Organization
	for i := range employees {
		e := &employees[i]
		if _, ok := seen[e.OrgID]; ok {
			continue
		}
		seen[e.OrgID] = struct{}{}

		org := domain.Organization{
			OrgID:        e.OrgID,
			OrgNameEN:    e.OrgNameEN,
			OrgNameFR:    e.OrgNameFR,
			DeptID:       e.DeptID,
			DepartmentEN: e.DepartmentEN,
			DepartmentFR: e.DepartmentFR,
		}
		path, found, err := FindPath(forest, e.DepartmentEN, e.OrgNameEN)
		switch {
		case err != nil:
			recordPathMiss(m, "department")
			logger.WithField("org_id", e.OrgID).WithField("department", e.DepartmentEN).Debug("department root not in chart")
		case !found:
			recordPathMiss(m, "name")
			logger.WithField("org_id", e.OrgID).WithField("name", e.OrgNameEN).Debug("organization not in department chart")
		default:
			org.ChartPath, org.PathFound = path, true
		}
		out = append(out, org)
	}
	return out
}

func recordPathMiss(m *metrics.SyncMetrics, reason string) {
	if m == nil {
		return
	}
	m.PathMisses.WithLabelValues(reason).Inc()
}

// BuildDocuments joins employees with their department and organization.
// Employees whose department or organization row is missing are skipped.
func BuildDocuments(tables domain.Tables) ([]domain.EmployeeDocument, []domain.OrganizationDocument) {
	depts := make(map[int]*domain.Department, len(tables.Departments))
	for i := range tables.Departments {
		d := &tables.Departments[i]
		if _, ok := depts[d.DeptID]; !ok {
			depts[d.DeptID] = d
		}
	}
	orgs := make(map[int]*domain.Organization, len(tables.Organizations))
	for i := range tables.Organizations {
		o := &tables.Organizations[i]
		orgs[o.OrgID] = o
	}

	employees := make([]domain.EmployeeDocument, 0, len(tables.Employees))
	for i := range tables.Employees {
		e := &tables.Employees[i]
		d, ok := depts[e.DeptID]
		if !ok {
			continue
		}
		o, ok := orgs[e.OrgID]
		if !ok {
			continue
		}
		employees = append(employees, domain.EmployeeDocument{
			EmployeeID:   e.EmployeeID,
			LastName:     e.LastName,
			FirstName:    e.FirstName,
			FullName:     e.FullName,
			JobTitleEN:   e.JobTitleEN,
			JobTitleFR:   e.JobTitleFR,
			PhoneNumber:  e.PhoneNumber,
			Email:        e.Email,
			AddressEN:    e.AddressEN,
			AddressFR:    e.AddressFR,
			ProvinceEN:   e.ProvinceEN,
			ProvinceFR:   e.ProvinceFR,
			CityEN:       e.CityEN,
			CityFR:       e.CityFR,
			PostalCode:   e.PostalCode,
			OrgNameEN:    o.OrgNameEN,
			OrgNameFR:    o.OrgNameFR,
			OrgChartPath: chartPathText(o),
			DepartmentEN: d.DepartmentEN,
			DepartmentFR: d.DepartmentFR,
			OrgID:        strconv.Itoa(e.OrgID),
			DeptID:       strconv.Itoa(e.DeptID),
		})
	}

	organizations := make([]domain.OrganizationDocument, 0, len(tables.Organizations))
	for i := range tables.Organizations {
		o := &tables.Organizations[i]
		d, ok := depts[o.DeptID]
		if !ok {
			continue
		}
		organizations = append(organizations, domain.OrganizationDocument{
			OrgID:        o.OrgID,
			OrgNameEN:    o.OrgNameEN,
			OrgNameFR:    o.OrgNameFR,
			OrgChartPath: chartPathText(o),
			DepartmentEN: d.DepartmentEN,
			DepartmentFR: d.DepartmentFR,
		})
	}
	return employees, organizations
}

func chartPathText(o *domain.Organization) string {
	if p := o.ChartPathJSON(); p != nil {
		return *p
	}
	return ""
}
