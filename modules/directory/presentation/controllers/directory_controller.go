package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gcdevops/geds-sync/modules/directory/domain"
	"github.com/gcdevops/geds-sync/modules/directory/services"
	"github.com/gcdevops/geds-sync/pkg/composables"
	"github.com/gcdevops/geds-sync/pkg/httpapi"
)

// DirectoryController serves charts and paths from a prepared snapshot. It
// never writes.
type DirectoryController struct {
	snapshot  *services.Prepared
	apiPrefix string
}

func NewDirectoryController(snapshot *services.Prepared) *DirectoryController {
	return &DirectoryController{snapshot: snapshot, apiPrefix: "/api/v1"}
}

func (c *DirectoryController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.HandleFunc("/departments", c.GetDepartments).Methods(http.MethodGet)
	api.HandleFunc("/charts/{lang}", c.GetChart).Methods(http.MethodGet)
	api.HandleFunc("/charts/{lang}/unmatched", c.GetUnmatched).Methods(http.MethodGet)
	api.HandleFunc("/paths", c.GetPath).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{id:[0-9]+}", c.GetOrganization).Methods(http.MethodGet)
}

func parseLang(v string) (domain.Lang, bool) {
	switch domain.Lang(v) {
	case domain.LangEN, domain.LangFR:
		return domain.Lang(v), true
	case "":
		return domain.LangEN, true
	}
	return "", false
}

func writeInvalidQuery(w http.ResponseWriter, message string) {
	_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.CodeInvalidQuery, message, nil)
}

func (c *DirectoryController) GetChart(w http.ResponseWriter, r *http.Request) {
	lang, ok := parseLang(mux.Vars(r)["lang"])
	if !ok {
		writeInvalidQuery(w, "lang must be en or fr")
		return
	}
	forest := c.snapshot.Charts.Forest(lang)

	var (
		body []byte
		err  error
	)
	if department := r.URL.Query().Get("department"); department != "" {
		body, err = services.DepartmentChart(forest, department)
	} else {
		body, err = json.Marshal(forest)
	}
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("encode chart")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternalError, "chart encoding failed", nil)
		return
	}
	_ = httpapi.WriteRawJSON(w, http.StatusOK, body)
}

type diagnosticResponse struct {
	Root string `json:"root"`
	Name string `json:"name"`
	Path []int  `json:"path"`
}

func (c *DirectoryController) GetUnmatched(w http.ResponseWriter, r *http.Request) {
	lang, ok := parseLang(mux.Vars(r)["lang"])
	if !ok {
		writeInvalidQuery(w, "lang must be en or fr")
		return
	}
	diags := c.snapshot.Charts.Unmatched[lang]
	out := make([]diagnosticResponse, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnosticResponse{Root: d.Root, Name: d.Name, Path: d.Path})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

type pathResponse struct {
	Department string `json:"department"`
	Name       string `json:"name"`
	Path       []int  `json:"path"`
	Found      bool   `json:"found"`
}

func (c *DirectoryController) GetPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang, ok := parseLang(q.Get("lang"))
	if !ok {
		writeInvalidQuery(w, "lang must be en or fr")
		return
	}
	department, name := q.Get("department"), q.Get("name")
	if strings.TrimSpace(department) == "" || strings.TrimSpace(name) == "" {
		writeInvalidQuery(w, "department and name are required")
		return
	}

	path, found, err := services.FindPath(c.snapshot.Charts.Forest(lang), department, name)
	switch {
	case errors.Is(err, services.ErrDepartmentNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, err.Error(), nil)
		return
	case err != nil:
		_ = httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeInternalError, err.Error(), nil)
		return
	}
	if !found {
		path = nil
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, pathResponse{
		Department: department,
		Name:       name,
		Path:       path,
		Found:      found,
	})
}

type organizationResponse struct {
	OrgID        int    `json:"org_id"`
	OrgNameEN    string `json:"org_name_en"`
	OrgNameFR    string `json:"org_name_fr"`
	DeptID       int    `json:"dept_id"`
	DepartmentEN string `json:"department_en"`
	DepartmentFR string `json:"department_fr"`
	OrgChartPath []int  `json:"org_chart_path"`
}

func (c *DirectoryController) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeInvalidQuery(w, "id must be an integer")
		return
	}
	for i := range c.snapshot.Tables.Organizations {
		org := &c.snapshot.Tables.Organizations[i]
		if org.OrgID != id {
			continue
		}
		resp := organizationResponse{
			OrgID:        org.OrgID,
			OrgNameEN:    org.OrgNameEN,
			OrgNameFR:    org.OrgNameFR,
			DeptID:       org.DeptID,
			DepartmentEN: org.DepartmentEN,
			DepartmentFR: org.DepartmentFR,
		}
		if org.PathFound {
			resp.OrgChartPath = append([]int{}, org.ChartPath...)
		}
		_ = httpapi.WriteJSON(w, http.StatusOK, resp)
		return
	}
	_ = httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "organization not found",
		map[string]string{"id": strconv.Itoa(id)})
}

type departmentResponse struct {
	DeptID       int    `json:"dept_id"`
	DepartmentEN string `json:"department_en"`
	DepartmentFR string `json:"department_fr"`
}

func (c *DirectoryController) GetDepartments(w http.ResponseWriter, r *http.Request) {
	depts := c.snapshot.Tables.Departments
	out := make([]departmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, departmentResponse{DeptID: d.DeptID, DepartmentEN: d.DepartmentEN, DepartmentFR: d.DepartmentFR})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}
