package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/infrastructure/persistence/models"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/tracing"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	composables.Beginner
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type table struct {
	name    string
	ddl     string
	columns []string
}

var (
	employeesTable = table{
		name: "employees",
		ddl: `
		CREATE TABLE employees (
			employee_id  INTEGER PRIMARY KEY,
			last_name    TEXT,
			first_name   TEXT,
			job_title_en TEXT,
			job_title_fr TEXT,
			phone_number TEXT,
			email        TEXT,
			address_en   TEXT,
			address_fr   TEXT,
			province_en  TEXT,
			province_fr  TEXT,
			city_en      TEXT,
			city_fr      TEXT,
			postal_code  TEXT,
			org_id       INTEGER NOT NULL,
			dept_id      INTEGER NOT NULL
		)`,
		columns: []string{
			"employee_id", "last_name", "first_name", "job_title_en", "job_title_fr",
			"phone_number", "email", "address_en", "address_fr", "province_en", "province_fr",
			"city_en", "city_fr", "postal_code", "org_id", "dept_id",
		},
	}
	departmentsTable = table{
		name: "departments",
		ddl: `
		CREATE TABLE departments (
			dept_id       INTEGER NOT NULL,
			department_en TEXT,
			department_fr TEXT,
			org_chart_en  JSONB NOT NULL,
			org_chart_fr  JSONB NOT NULL
		)`,
		columns: []string{"dept_id", "department_en", "department_fr", "org_chart_en", "org_chart_fr"},
	}
	organizationsTable = table{
		name: "organizations",
		ddl: `
		CREATE TABLE organizations (
			org_id         INTEGER PRIMARY KEY,
			org_name_en    TEXT,
			org_name_fr    TEXT,
			dept_id        INTEGER NOT NULL,
			org_chart_path TEXT
		)`,
		columns: []string{"org_id", "org_name_en", "org_name_fr", "dept_id", "org_chart_path"},
	}
)

// DirectoryStore replaces the employees, departments and organizations tables
// wholesale on every run.
type DirectoryStore struct {
	db DB
}

func NewDirectoryStore(db DB) *DirectoryStore {
	return &DirectoryStore{db: db}
}

func (s *DirectoryStore) ReplaceAll(ctx context.Context, tables domain.Tables) error {
	ctx, span := tracing.Start(ctx, "persistence.replace_all")
	defer span.End()
	logger := composables.UseLogger(ctx).WithField("stage", "store")

	return composables.InTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		n, err := replaceTable(ctx, tx, employeesTable, len(tables.Employees), func(i int) []any {
			row := toDBEmployee(&tables.Employees[i])
			return []any{
				row.EmployeeID, row.LastName, row.FirstName, row.JobTitleEN, row.JobTitleFR,
				row.PhoneNumber, row.Email, row.AddressEN, row.AddressFR, row.ProvinceEN, row.ProvinceFR,
				row.CityEN, row.CityFR, row.PostalCode, row.OrgID, row.DeptID,
			}
		})
		if err != nil {
			return err
		}
		logger.WithField("table", employeesTable.name).WithField("rows", n).Debug("table copied")

		n, err = replaceTable(ctx, tx, departmentsTable, len(tables.Departments), func(i int) []any {
			row := toDBDepartment(&tables.Departments[i])
			return []any{row.DeptID, row.DepartmentEN, row.DepartmentFR, row.OrgChartEN, row.OrgChartFR}
		})
		if err != nil {
			return err
		}
		logger.WithField("table", departmentsTable.name).WithField("rows", n).Debug("table copied")

		n, err = replaceTable(ctx, tx, organizationsTable, len(tables.Organizations), func(i int) []any {
			row := toDBOrganization(&tables.Organizations[i])
			return []any{row.OrgID, row.OrgNameEN, row.OrgNameFR, row.DeptID, row.OrgChartPath}
		})
		if err != nil {
			return err
		}
		logger.WithField("table", organizationsTable.name).WithField("rows", n).Debug("table copied")
		return nil
	})
}

func replaceTable(ctx context.Context, tx pgx.Tx, t table, n int, values func(i int) []any) (int64, error) {
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{t.name}.Sanitize()); err != nil {
		return 0, fmt.Errorf("drop %s: %w", t.name, err)
	}
	if _, err := tx.Exec(ctx, t.ddl); err != nil {
		return 0, fmt.Errorf("create %s: %w", t.name, err)
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{t.name}, t.columns,
		pgx.CopyFromSlice(n, func(i int) ([]any, error) {
			return values(i), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", t.name, err)
	}
	return copied, nil
}

// Organizations reads the stored organization rows ordered by org id.
func (s *DirectoryStore) Organizations(ctx context.Context) ([]domain.Organization, error) {
	rows, err := s.db.Query(ctx, `
		SELECT org_id, org_name_en, org_name_fr, dept_id, org_chart_path
		FROM organizations
		ORDER BY org_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		var row models.Organization
		if err := rows.Scan(&row.OrgID, &row.OrgNameEN, &row.OrgNameFR, &row.DeptID, &row.OrgChartPath); err != nil {
			return nil, err
		}
		org, err := toDomainOrganization(&row)
		if err != nil {
			return nil, fmt.Errorf("org %d chart path: %w", row.OrgID, err)
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Departments reads department names without their charts.
func (s *DirectoryStore) Departments(ctx context.Context) ([]domain.Department, error) {
	rows, err := s.db.Query(ctx, `
		SELECT dept_id, department_en, department_fr
		FROM departments
		ORDER BY dept_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Department
	for rows.Next() {
		var row models.Department
		if err := rows.Scan(&row.DeptID, &row.DepartmentEN, &row.DepartmentFR); err != nil {
			return nil, err
		}
		out = append(out, domain.Department{
			DeptID:       row.DeptID,
			DepartmentEN: row.DepartmentEN,
			DepartmentFR: row.DepartmentFR,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
