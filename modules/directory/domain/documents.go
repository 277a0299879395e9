package domain

// EmployeeDocument is the search-index shape of an employee.
type EmployeeDocument struct {
	EmployeeID   int    `json:"employee_id"`
	LastName     string `json:"last_name"`
	FirstName    string `json:"first_name"`
	FullName     string `json:"full_name"`
	JobTitleEN   string `json:"job_title_en"`
	JobTitleFR   string `json:"job_title_fr"`
	PhoneNumber  string `json:"phone_number"`
	Email        string `json:"email"`
	AddressEN    string `json:"address_en"`
	AddressFR    string `json:"address_fr"`
	ProvinceEN   string `json:"province_en"`
	ProvinceFR   string `json:"province_fr"`
	CityEN       string `json:"city_en"`
	CityFR       string `json:"city_fr"`
	PostalCode   string `json:"postal_code"`
	OrgNameEN    string `json:"org_name_en"`
	OrgNameFR    string `json:"org_name_fr"`
	OrgChartPath string `json:"org_chart_path"`
	DepartmentEN string `json:"department_en"`
	DepartmentFR string `json:"department_fr"`
	OrgID        string `json:"org_id"`
	DeptID       string `json:"dept_id"`
}

// OrganizationDocument is the search-index shape of an organization.
type OrganizationDocument struct {
	OrgID        int    `json:"org_id"`
	OrgNameEN    string `json:"org_name_en"`
	OrgNameFR    string `json:"org_name_fr"`
	OrgChartPath string `json:"org_chart_path"`
	DepartmentEN string `json:"department_en"`
	DepartmentFR string `json:"department_fr"`
}

const (
	EmployeeIndex     = "employee"
	OrganizationIndex = "organization"
)
