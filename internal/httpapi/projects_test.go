package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store/memory"
)

// seedSession creates a user and a live session directly in the store.
func seedSession(t *testing.T, memStore *memory.Store, email string) (model.User, string) {
	t.Helper()
	ctx := context.Background()

	u, err := memStore.CreateUser(ctx, model.User{Email: email, IsActive: true})
	require.NoError(t, err)

	token, err := newSessionToken()
	require.NoError(t, err)
	_, err = memStore.CreateSession(ctx, model.Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return u, token
}

func TestCategoryAndProjectFlow(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	owner, token := seedSession(t, memStore, "owner@example.com")

	// Category.
	rec := doJSON(t, h, http.MethodPost, "/v1/categories", token, map[string]any{
		"name":             "Customer Experience",
		"objective_weight": 2.5,
		"scorecard_year":   2026,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var catResp map[string]model.Category
	decodeBody(t, rec, &catResp)
	category := catResp["category"]
	require.NotEmpty(t, category.ID)

	// Status.
	rec = doJSON(t, h, http.MethodPost, "/v1/statuses", token, map[string]any{
		"name": "On Track",
		"date": "2026-08-30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var stResp map[string]model.Status
	decodeBody(t, rec, &stResp)
	status := stResp["status"]

	// Project.
	rec = doJSON(t, h, http.MethodPost, "/v1/projects", token, map[string]any{
		"name":                      "Portal Rebuild",
		"category_id":               category.ID,
		"measure_initiative_weight": 0.25,
		"phase":                     "Development",
		"status_id":                 status.ID,
		"stretch_target_date":       "2026-12-31",
		"owner_id":                  owner.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var projResp map[string]model.Project
	decodeBody(t, rec, &projResp)
	project := projResp["project"]
	require.NotEmpty(t, project.ID)
	assert.Equal(t, model.PhaseDevelopment, project.Phase)

	// Detail.
	rec = doJSON(t, h, http.MethodGet, "/v1/projects/"+project.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Partial update: only the phase and budget change.
	rec = doJSON(t, h, http.MethodPost, "/v1/projects/"+project.ID+"/update", token, map[string]any{
		"phase":  "Testing",
		"budget": 120000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updResp struct {
		Project model.Project `json:"project"`
	}
	decodeBody(t, rec, &updResp)
	assert.Equal(t, model.PhaseTesting, updResp.Project.Phase)
	require.NotNil(t, updResp.Project.Budget)
	assert.Equal(t, 120000.0, *updResp.Project.Budget)
	assert.Equal(t, "Portal Rebuild", updResp.Project.Name)

	// Category detail includes its projects.
	rec = doJSON(t, h, http.MethodGet, "/v1/categories/"+category.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Portal Rebuild")
}

func TestProjectCreateRejectsBadReferences(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	owner, token := seedSession(t, memStore, "owner@example.com")

	rec := doJSON(t, h, http.MethodPost, "/v1/projects", token, map[string]any{
		"name":                "Orphan",
		"category_id":         "00000000-0000-0000-0000-000000000000",
		"phase":               "Design",
		"status_id":           "00000000-0000-0000-0000-000000000000",
		"stretch_target_date": "2026-12-31",
		"owner_id":            owner.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_reference")
}

func TestProjectUpdateDistinguishesMissingFromDangling(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	owner, token := seedSession(t, memStore, "owner@example.com")
	ctx := context.Background()

	cat, err := memStore.CreateCategory(ctx, model.Category{Name: "Delivery", ObjectiveWeight: 1, ScorecardYear: 2026})
	require.NoError(t, err)
	st, err := memStore.CreateStatus(ctx, model.Status{Name: model.StatusPlanned, Date: time.Now()})
	require.NoError(t, err)
	project, err := memStore.CreateProject(ctx, model.Project{
		Name:              "Portal Rebuild",
		CategoryID:        cat.ID,
		Phase:             model.PhaseDesign,
		StatusID:          st.ID,
		StretchTargetDate: time.Now().AddDate(0, 1, 0),
		OwnerID:           owner.ID,
	})
	require.NoError(t, err)

	// Updating a project that does not exist is a plain 404.
	rec := doJSON(t, h, http.MethodPost, "/v1/projects/missing-id/update", token, map[string]any{
		"name": "Renamed",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	// Pointing an existing project at an unknown status is a bad reference.
	missing := "00000000-0000-0000-0000-000000000000"
	rec = doJSON(t, h, http.MethodPost, "/v1/projects/"+project.ID+"/update", token, map[string]any{
		"status_id": missing,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_reference")
}

func TestProjectUpdateRejectsBadDate(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	_, token := seedSession(t, memStore, "owner@example.com")

	rec := doJSON(t, h, http.MethodPost, "/v1/projects/some-id/update", token, map[string]any{
		"stretch_target_date": "31/12/2026",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestCategoryUpdate(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	_, token := seedSession(t, memStore, "owner@example.com")

	rec := doJSON(t, h, http.MethodPost, "/v1/categories", token, map[string]any{
		"name":           "Ops",
		"scorecard_year": 2026,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var catResp map[string]model.Category
	decodeBody(t, rec, &catResp)
	category := catResp["category"]

	rec = doJSON(t, h, http.MethodPost, "/v1/categories/"+category.ID+"/update", token, map[string]any{
		"name": "Operations",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Operations")

	rec = doJSON(t, h, http.MethodPost, "/v1/categories/missing-id/update", token, map[string]any{
		"name": "X",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardGroupsProjectsByCategory(t *testing.T) {
	srv, memStore, _ := newTestServer(t)
	h := srv.Handler()
	owner, token := seedSession(t, memStore, "owner@example.com")
	ctx := context.Background()

	cat1, err := memStore.CreateCategory(ctx, model.Category{Name: "Delivery", ObjectiveWeight: 1, ScorecardYear: 2026})
	require.NoError(t, err)
	_, err = memStore.CreateCategory(ctx, model.Category{Name: "Growth", ObjectiveWeight: 1, ScorecardYear: 2026})
	require.NoError(t, err)
	st, err := memStore.CreateStatus(ctx, model.Status{Name: model.StatusPlanned, Date: time.Now()})
	require.NoError(t, err)

	_, err = memStore.CreateProject(ctx, model.Project{
		Name:              "In Delivery",
		CategoryID:        cat1.ID,
		Phase:             model.PhaseDesign,
		StatusID:          st.ID,
		StretchTargetDate: time.Now().AddDate(0, 1, 0),
		OwnerID:           owner.ID,
	})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []struct {
			model.Category
			Projects []model.Project `json:"projects"`
		} `json:"categories"`
		Statuses []model.Status `json:"statuses"`
		Owners   []model.User   `json:"owners"`
		Phases   []string       `json:"phases"`
	}
	decodeBody(t, rec, &resp)

	require.Len(t, resp.Categories, 2)
	byName := map[string]int{}
	for _, g := range resp.Categories {
		byName[g.Name] = len(g.Projects)
	}
	assert.Equal(t, 1, byName["Delivery"])
	assert.Equal(t, 0, byName["Growth"], "empty categories still appear with an empty list")
	assert.Len(t, resp.Statuses, 1)
	assert.Len(t, resp.Owners, 1)
	assert.Len(t, resp.Phases, 8)
}
