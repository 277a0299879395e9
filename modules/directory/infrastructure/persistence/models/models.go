package models

import "time"

type Employee struct {
	EmployeeID  int
	LastName    string
	FirstName   string
	JobTitleEN  string
	JobTitleFR  string
	PhoneNumber string
	Email       string
	AddressEN   string
	AddressFR   string
	ProvinceEN  string
	ProvinceFR  string
	CityEN      string
	CityFR      string
	PostalCode  string
	OrgID       int
	DeptID      int
}

type Department struct {
	DeptID       int
	DepartmentEN string
	DepartmentFR string
	OrgChartEN   string
	OrgChartFR   string
}

type Organization struct {
	OrgID        int
	OrgNameEN    string
	OrgNameFR    string
	DeptID       int
	OrgChartPath *string
}

type SyncRun struct {
	RunID         string    `db:"run_id"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
	Status        string    `db:"status"`
	Employees     int       `db:"employees"`
	Departments   int       `db:"departments"`
	Organizations int       `db:"organizations"`
	PathsResolved int       `db:"paths_resolved"`
	Error         *string   `db:"error"`
}
