package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence/models"
)

func toDBEmployee(e *domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:  e.EmployeeID,
		LastName:    e.LastName,
		FirstName:   e.FirstName,
		JobTitleEN:  e.JobTitleEN,
		JobTitleFR:  e.JobTitleFR,
		PhoneNumber: e.PhoneNumber,
		Email:       e.Email,
		AddressEN:   e.AddressEN,
		AddressFR:   e.AddressFR,
		ProvinceEN:  e.ProvinceEN,
		ProvinceFR:  e.ProvinceFR,
		CityEN:      e.CityEN,
		CityFR:      e.CityFR,
		PostalCode:  e.PostalCode,
		OrgID:       e.OrgID,
		DeptID:      e.DeptID,
	}
}

func toDBDepartment(d *domain.Department) models.Department {
	return models.Department{
		DeptID:       d.DeptID,
		DepartmentEN: d.DepartmentEN,
		DepartmentFR: d.DepartmentFR,
		OrgChartEN:   chartText(d.OrgChartEN),
		OrgChartFR:   chartText(d.OrgChartFR),
	}
}

func chartText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "[]"
	}
	return string(raw)
}

func toDBOrganization(o *domain.Organization) models.Organization {
	return models.Organization{
		OrgID:        o.OrgID,
		OrgNameEN:    o.OrgNameEN,
		OrgNameFR:    o.OrgNameFR,
		DeptID:       o.DeptID,
		OrgChartPath: o.ChartPathJSON(),
	}
}

// toDomainOrganization drops department names; they live in departments.
func toDomainOrganization(row *models.Organization) (domain.Organization, error) {
	org := domain.Organization{
		OrgID:     row.OrgID,
		OrgNameEN: row.OrgNameEN,
		OrgNameFR: row.OrgNameFR,
		DeptID:    row.DeptID,
	}
	if row.OrgChartPath == nil {
		return org, nil
	}
	if err := json.Unmarshal([]byte(*row.OrgChartPath), &org.ChartPath); err != nil {
		return domain.Organization{}, err
	}
	if org.ChartPath == nil {
		org.ChartPath = []int{}
	}
	org.PathFound = true
	return org, nil
}

func toDBSyncRun(r *domain.SyncRun) models.SyncRun {
	row := models.SyncRun{
		RunID:         r.ID.String(),
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Status:        string(r.Status),
		Employees:     r.Employees,
		Departments:   r.Departments,
		Organizations: r.Organizations,
		PathsResolved: r.PathsResolved,
	}
	if r.Error != "" {
		msg := r.Error
		row.Error = &msg
	}
	return row
}

func toDomainSyncRun(row *models.SyncRun) (domain.SyncRun, error) {
	id, err := uuid.Parse(row.RunID)
	if err != nil {
		return domain.SyncRun{}, fmt.Errorf("run id %q: %w", row.RunID, err)
	}
	run := domain.SyncRun{
		ID:            id,
		StartedAt:     row.StartedAt,
		FinishedAt:    row.FinishedAt,
		Status:        domain.RunStatus(row.Status),
		Employees:     row.Employees,
		Departments:   row.Departments,
		Organizations: row.Organizations,
		PathsResolved: row.PathsResolved,
	}
	if row.Error != nil {
		run.Error = *row.Error
	}
	return run, nil
}
