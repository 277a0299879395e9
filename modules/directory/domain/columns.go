package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Column aliases the preparation step understands.
const (
	ColLastName       = "last_name"
	ColFirstName      = "first_name"
	ColJobTitleEN     = "job_title_en"
	ColJobTitleFR     = "job_title_fr"
	ColPhoneNumber    = "phone_number"
	ColEmail          = "email"
	ColAddressEN      = "address_en"
	ColAddressFR      = "address_fr"
	ColProvinceEN     = "province_en"
	ColProvinceFR     = "province_fr"
	ColCityEN         = "city_en"
	ColCityFR         = "city_fr"
	ColPostalCode     = "postal_code"
	ColOrgNameEN      = "org_name_en"
	ColOrgNameFR      = "org_name_fr"
	ColOrgStructureEN = "org_structure_en"
	ColOrgStructureFR = "org_structure_fr"
	ColDepartmentEN   = "department_en"
	ColDepartmentFR   = "department_fr"
)

// RequiredColumns must be present among the aliases of any mapping.
var RequiredColumns = []string{
	ColOrgNameEN, ColOrgNameFR,
	ColOrgStructureEN, ColOrgStructureFR,
	ColDepartmentEN, ColDepartmentFR,
}

// SubsetColumn is the raw header used to restrict a download to one department.
const SubsetColumn = "Department Acronym"

// ColumnMapping selects source columns and renames them to aliases.
type ColumnMapping struct {
	Keep              []string `yaml:"columns_to_keep" toml:"columns_to_keep"`
	Aliases           []string `yaml:"column_aliases" toml:"column_aliases"`
	SpecialCharacters []string `yaml:"org_special_characters" toml:"org_special_characters"`
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Keep: []string{
			"Surname", "GivenName", "Title (EN)", "Title (FR)", "Telephone Number", "Email",
			"Street Address (EN)", "Street Address (FR)", "Province (EN)", "Province (FR)",
			"City (EN)", "City (FR)", "Postal Code",
			"Organization Name (EN)", "Organization Name (FR)",
			"Organization Structure (EN)", "Organization Structure (FR)",
			"Department Name (EN)", "Department Name (FR)",
		},
		Aliases: []string{
			ColLastName, ColFirstName, ColJobTitleEN, ColJobTitleFR, ColPhoneNumber, ColEmail,
			ColAddressEN, ColAddressFR, ColProvinceEN, ColProvinceFR,
			ColCityEN, ColCityFR, ColPostalCode,
			ColOrgNameEN, ColOrgNameFR,
			ColOrgStructureEN, ColOrgStructureFR,
			ColDepartmentEN, ColDepartmentFR,
		},
		SpecialCharacters: []string{"\u00a0", "\t", "\r", "\n"},
	}
}

func (m ColumnMapping) Validate() error {
	if len(m.Keep) == 0 {
		return fmt.Errorf("columns_to_keep is empty")
	}
	if len(m.Keep) != len(m.Aliases) {
		return fmt.Errorf("columns_to_keep has %d entries but column_aliases has %d", len(m.Keep), len(m.Aliases))
	}
	seen := make(map[string]struct{}, len(m.Aliases))
	for _, a := range m.Aliases {
		if _, dup := seen[a]; dup {
			return fmt.Errorf("duplicate column alias: %s", a)
		}
		seen[a] = struct{}{}
	}
	for _, req := range RequiredColumns {
		if _, ok := seen[req]; !ok {
			return fmt.Errorf("missing required column alias: %s", req)
		}
	}
	return nil
}

// LoadColumnMapping reads a YAML (.yaml/.yml) or TOML (.toml) mapping file.
// An empty path returns the default mapping.
func LoadColumnMapping(path string) (ColumnMapping, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultColumnMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ColumnMapping{}, errors.Wrapf(err, "read column mapping %s", path)
	}

	var m ColumnMapping
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return ColumnMapping{}, fmt.Errorf("unsupported column mapping format: %s", path)
	}
	if err != nil {
		return ColumnMapping{}, errors.Wrapf(err, "decode column mapping %s", path)
	}
	if m.SpecialCharacters == nil {
		m.SpecialCharacters = DefaultColumnMapping().SpecialCharacters
	}
	if err := m.Validate(); err != nil {
		return ColumnMapping{}, errors.Wrapf(err, "column mapping %s", path)
	}
	return m, nil
}
