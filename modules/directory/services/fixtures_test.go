package services

import (
	"context"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
)

type person struct {
	last, first        string
	deptEN, deptFR     string
	orgEN, orgFR       string
	structEN, structFR string
}

var people = []person{
	{"Doe", "Jane", "Dept A", "Min A", "Team X", "Équipe X", "Dept A: Branch 1: Team X", "Min A: Direction 1: Équipe X"},
	{"Roe", "Rick", "Dept A", "Min A", "Branch 2", "Direction 2", "Dept A: Branch 2", "Min A: Direction 2"},
	{"Poe", "Edna", "Dept A", "Min A", "Team X", "Équipe X", "Dept A: Branch 1: Team X", "Min A: Direction 1: Équipe X"},
	{"Loe", "Lou", "Dept B", "Min B", "Unit (old)", "Unité", "Dept B: Unit (old)", "Min B: Unité"},
}

func fixtureDataset() domain.Dataset {
	mapping := domain.DefaultColumnMapping()
	header := append([]string(nil), mapping.Keep...)
	pos := make(map[string]int, len(mapping.Aliases))
	for i, a := range mapping.Aliases {
		pos[a] = i
	}

	ds := domain.Dataset{Header: header}
	for _, p := range people {
		rec := make([]string, len(header))
		rec[pos[domain.ColLastName]] = p.last
		rec[pos[domain.ColFirstName]] = p.first
		rec[pos[domain.ColEmail]] = p.first + "." + p.last + "@example.gc.ca"
		rec[pos[domain.ColDepartmentEN]] = p.deptEN
		rec[pos[domain.ColDepartmentFR]] = p.deptFR
		rec[pos[domain.ColOrgNameEN]] = p.orgEN
		rec[pos[domain.ColOrgNameFR]] = p.orgFR
		rec[pos[domain.ColOrgStructureEN]] = p.structEN
		rec[pos[domain.ColOrgStructureFR]] = p.structFR
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

func fixtureEmployees() []domain.Employee {
	employees, err := PrepareRecords(fixtureDataset(), domain.DefaultColumnMapping())
	if err != nil {
		panic(err)
	}
	return employees
}

type fakeSource struct {
	ds  domain.Dataset
	err error
}

func (f *fakeSource) Load(context.Context) (domain.Dataset, error) {
	return f.ds, f.err
}

type fakeStore struct {
	calls  int
	tables domain.Tables
	err    error
}

func (f *fakeStore) ReplaceAll(_ context.Context, t domain.Tables) error {
	f.calls++
	f.tables = t
	return f.err
}

type fakeIndexer struct {
	employees     []domain.EmployeeDocument
	organizations []domain.OrganizationDocument
	failed        int
	err           error
}

func (f *fakeIndexer) IndexEmployees(_ context.Context, docs []domain.EmployeeDocument) (domain.IndexStats, error) {
	if f.err != nil {
		return domain.IndexStats{}, f.err
	}
	f.employees = docs
	return domain.IndexStats{Indexed: len(docs) - f.failed, Failed: f.failed}, nil
}

func (f *fakeIndexer) IndexOrganizations(_ context.Context, docs []domain.OrganizationDocument) (domain.IndexStats, error) {
	if f.err != nil {
		return domain.IndexStats{}, f.err
	}
	f.organizations = docs
	return domain.IndexStats{Indexed: len(docs)}, nil
}

type fakeRecorder struct {
	runs []domain.SyncRun
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, run domain.SyncRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeRecorder) Recent(_ context.Context, limit int) ([]domain.SyncRun, error) {
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], f.err
}
