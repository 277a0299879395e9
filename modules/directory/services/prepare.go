package services

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

var (
	ErrDatasetEmpty  = errors.New("dataset is empty")
	ErrMissingColumn = errors.New("missing column")
)

// PrepareRecords selects and renames the mapped columns, normalises the
// department and organization names, derives the compound and full names and
// assigns the employee, org and dept keys.
func PrepareRecords(ds domain.Dataset, mapping domain.ColumnMapping) ([]domain.Employee, error) {
	if ds.Len() == 0 {
		return nil, ErrDatasetEmpty
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	header := make(map[string]int, len(ds.Header))
	for i, h := range ds.Header {
		header[strings.TrimSpace(h)] = i
	}
	source := make(map[string]int, len(mapping.Aliases))
	for i, col := range mapping.Keep {
		idx, ok := header[col]
		if !ok {
			return nil, errors.Wrap(ErrMissingColumn, col)
		}
		source[mapping.Aliases[i]] = idx
	}

	employees := make([]domain.Employee, 0, ds.Len())
	for i, rec := range ds.Records {
		get := func(alias string) string {
			idx, ok := source[alias]
			if !ok || idx >= len(rec) {
				return ""
			}
			return rec[idx]
		}
		clean := func(alias string) string {
			return cleanName(get(alias), mapping.SpecialCharacters)
		}

		e := domain.Employee{
			EmployeeID:     i,
			LastName:       get(domain.ColLastName),
			FirstName:      get(domain.ColFirstName),
			JobTitleEN:     get(domain.ColJobTitleEN),
			JobTitleFR:     get(domain.ColJobTitleFR),
			PhoneNumber:    get(domain.ColPhoneNumber),
			Email:          get(domain.ColEmail),
			AddressEN:      get(domain.ColAddressEN),
			AddressFR:      get(domain.ColAddressFR),
			ProvinceEN:     get(domain.ColProvinceEN),
			ProvinceFR:     get(domain.ColProvinceFR),
			CityEN:         get(domain.ColCityEN),
			CityFR:         get(domain.ColCityFR),
			PostalCode:     get(domain.ColPostalCode),
			DepartmentEN:   clean(domain.ColDepartmentEN),
			DepartmentFR:   clean(domain.ColDepartmentFR),
			OrgNameEN:      clean(domain.ColOrgNameEN),
			OrgNameFR:      clean(domain.ColOrgNameFR),
			OrgStructureEN: get(domain.ColOrgStructureEN),
			OrgStructureFR: get(domain.ColOrgStructureFR),
		}
		// Org names are only unique within a department.
		e.CompoundNameEN = e.DepartmentEN + ": " + e.OrgNameEN
		e.CompoundNameFR = e.DepartmentFR + ": " + e.OrgNameFR
		e.FullName = e.FirstName + " " + e.LastName
		employees = append(employees, e)
	}

	assignKeys(employees)
	return employees, nil
}

func cleanName(v string, special []string) string {
	for _, s := range special {
		if s == "" {
			continue
		}
		v = strings.ReplaceAll(v, s, " ")
	}
	return strings.TrimSpace(v)
}

func assignKeys(employees []domain.Employee) {
	compound := make([]string, len(employees))
	depts := make([]string, len(employees))
	for i := range employees {
		compound[i] = employees[i].CompoundNameEN
		depts[i] = employees[i].DepartmentEN
	}
	orgCodes := CategoryCodes(compound)
	deptCodes := CategoryCodes(depts)
	for i := range employees {
		employees[i].OrgID = orgCodes[i]
		employees[i].DeptID = deptCodes[i]
	}
}

// CategoryCodes maps every value to its position among the sorted distinct
// values, so equal values share a code regardless of input order.
func CategoryCodes(values []string) []int {
	distinct := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)

	code := make(map[string]int, len(distinct))
	for i, v := range distinct {
		code[v] = i
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = code[v]
	}
	return out
}
