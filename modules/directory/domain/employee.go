package domain

import "strconv"

type Lang string

const (
	LangEN Lang = "en"
	LangFR Lang = "fr"
)

var Langs = []Lang{LangEN, LangFR}

// Employee is one prepared GEDS record.
type Employee struct {
	EmployeeID int
	OrgID      int
	DeptID     int

	LastName    string
	FirstName   string
	FullName    string
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

	DepartmentEN   string
	DepartmentFR   string
	OrgNameEN      string
	OrgNameFR      string
	OrgStructureEN string
	OrgStructureFR string
	CompoundNameEN string
	CompoundNameFR string
}

func (e *Employee) Department(lang Lang) string {
	if lang == LangFR {
		return e.DepartmentFR
	}
	return e.DepartmentEN
}

func (e *Employee) OrgName(lang Lang) string {
	if lang == LangFR {
		return e.OrgNameFR
	}
	return e.OrgNameEN
}

func (e *Employee) OrgStructure(lang Lang) string {
	if lang == LangFR {
		return e.OrgStructureFR
	}
	return e.OrgStructureEN
}

func (e *Employee) OrgIDString() string {
	return strconv.Itoa(e.OrgID)
}
