// internal/handlers/router_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrylimaSaas/ArchFlow-master/internal/auth"
	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

// env is a full server over the in-memory store: two offices, a few users
// with distinct roles, and office A's Todo/Doing columns.
type env struct {
	store  repo.Store
	tokens *auth.Tokens
	srv    *httptest.Server

	officeA, officeB uuid.UUID
	todo, doing      models.WorkflowStatus
	statusB          models.WorkflowStatus
	taskB            models.Task

	adminA, internA, adminB, root string // bearer tokens
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{store: repo.NewMemory(), tokens: auth.NewTokens("router-test-secret", time.Hour)}

	officeA, err := e.store.CreateOffice(ctx, "Atelier A")
	require.NoError(t, err)
	officeB, err := e.store.CreateOffice(ctx, "Atelier B")
	require.NoError(t, err)
	e.officeA, e.officeB = officeA.ID, officeB.ID

	user := func(name, email string, role models.Role, office *uuid.UUID) string {
		u, err := e.store.CreateUser(ctx, models.User{
			OfficeID: office, Name: name, Email: email, Role: role,
		}, "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
		require.NoError(t, err)
		tok, err := e.tokens.Issue(u.ID)
		require.NoError(t, err)
		return tok
	}
	e.adminA = user("Ana", "ana@a.test", models.RoleAdmin, &e.officeA)
	e.internA = user("Ivo", "ivo@a.test", models.RoleIntern, &e.officeA)
	e.adminB = user("Bea", "bea@b.test", models.RoleAdmin, &e.officeB)
	e.root = user("Root", "root@hq.test", models.RoleSuperAdmin, nil)

	e.todo, err = e.store.CreateStatus(ctx, models.WorkflowStatus{OfficeID: e.officeA, Name: "Todo", Position: 0})
	require.NoError(t, err)
	e.doing, err = e.store.CreateStatus(ctx, models.WorkflowStatus{OfficeID: e.officeA, Name: "Doing", Position: 1})
	require.NoError(t, err)

	e.statusB, err = e.store.CreateStatus(ctx, models.WorkflowStatus{OfficeID: e.officeB, Name: "Inbox", Position: 0})
	require.NoError(t, err)
	e.taskB, err = e.store.CreateTask(ctx, models.Task{OfficeID: e.officeB, Title: "their task", StatusID: &e.statusB.ID})
	require.NoError(t, err)

	mux := chi.NewMux()
	RegisterRoutes(mux, e.store, e.tokens)
	e.srv = httptest.NewServer(mux)
	t.Cleanup(e.srv.Close)
	return e
}

// do sends a request and decodes the JSON response into out (when non-nil).
func (e *env) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRoutesRequireBearerToken(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/board", "/tasks", "/workflow-statuses", "/users"} {
		code := e.do(t, http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code, "GET %s without token", path)
	}

	code := e.do(t, http.MethodGet, "/board", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignupThenLoginThenMe(t *testing.T) {
	e := newEnv(t)

	var signup struct {
		Token  string        `json:"token"`
		User   models.User   `json:"user"`
		Office models.Office `json:"office"`
	}
	code := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"office": "Fresh Studio", "name": "Nia", "email": "nia@fresh.test", "password": "longenough",
	}, &signup)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, models.RoleAdmin, signup.User.Role)
	require.NotNil(t, signup.User.OfficeID)
	assert.Equal(t, signup.Office.ID, *signup.User.OfficeID)

	var login struct {
		Token string `json:"token"`
	}
	code = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nia@fresh.test", "password": "longenough",
	}, &login)
	require.Equal(t, http.StatusOK, code)

	var me models.User
	code = e.do(t, http.MethodGet, "/auth/me", login.Token, nil, &me)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "nia@fresh.test", me.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	e := newEnv(t)

	code := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"office": "S", "name": "N", "email": "n@s.test", "password": "longenough",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	var body map[string]string
	code = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "n@s.test", "password": "wrong-pass",
	}, &body)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", body["error"])

	code = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@s.test", "password": "wrong-pass",
	}, &body)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestInsufficientRoleAnswers403WithReason(t *testing.T) {
	e := newEnv(t)

	var body map[string]string
	code := e.do(t, http.MethodPost, "/workflow-statuses", e.internA,
		map[string]string{"name": "Blocked"}, &body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "InsufficientRole", body["reason"])

	// The column was not created.
	var list []models.WorkflowStatus
	code = e.do(t, http.MethodGet, "/workflow-statuses", e.adminA, nil, &list)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, list, 2)
}

// Cross-tenant requests answer 404, indistinguishable from a missing row.
func TestCrossTenantAnswers404(t *testing.T) {
	e := newEnv(t)

	code := e.do(t, http.MethodGet, "/tasks/"+e.taskB.ID.String(), e.adminA, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = e.do(t, http.MethodDelete, "/workflow-statuses/"+e.statusB.ID.String(), e.adminA, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Owner still sees its row.
	code = e.do(t, http.MethodGet, "/tasks/"+e.taskB.ID.String(), e.adminB, nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)

	// Created without a status: lands in the default (lowest position) column.
	var created models.Task
	code := e.do(t, http.MethodPost, "/tasks", e.adminA,
		map[string]string{"title": "draft the facade"}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, created.StatusID)
	assert.Equal(t, e.todo.ID, *created.StatusID)
	assert.Equal(t, models.PriorityMedium, created.Priority)

	var moved models.Task
	code = e.do(t, http.MethodPut, "/tasks/"+created.ID.String()+"/move", e.adminA,
		map[string]uuid.UUID{"status_id": e.doing.ID}, &moved)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, moved.StatusID)
	assert.Equal(t, e.doing.ID, *moved.StatusID)

	// A foreign office's status is not a valid target.
	code = e.do(t, http.MethodPut, "/tasks/"+created.ID.String()+"/move", e.adminA,
		map[string]uuid.UUID{"status_id": e.statusB.ID}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var after models.Task
	code = e.do(t, http.MethodGet, "/tasks/"+created.ID.String(), e.adminA, nil, &after)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, after.StatusID)
	assert.Equal(t, e.doing.ID, *after.StatusID, "rejected move must not change the task")
}

func TestDeleteStatusCascadesToNullOverHTTP(t *testing.T) {
	e := newEnv(t)

	var created models.Task
	code := e.do(t, http.MethodPost, "/tasks", e.adminA,
		map[string]string{"title": "floats to backlog"}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, created.StatusID)
	require.Equal(t, e.todo.ID, *created.StatusID)

	code = e.do(t, http.MethodDelete, "/workflow-statuses/"+e.todo.ID.String(), e.adminA, nil, nil)
	require.Equal(t, http.StatusOK, code)

	var after models.Task
	code = e.do(t, http.MethodGet, "/tasks/"+created.ID.String(), e.adminA, nil, &after)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, after.StatusID)

	var board workflow.Board
	code = e.do(t, http.MethodGet, "/board", e.adminA, nil, &board)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, board.Columns, 1)
	assert.Equal(t, e.doing.ID, board.Columns[0].Status.ID)
	require.Len(t, board.Unassigned, 1)
	assert.Equal(t, created.ID, board.Unassigned[0].ID)
}

// A superadmin has no office of its own and must name one explicitly.
func TestSuperadminScoping(t *testing.T) {
	e := newEnv(t)

	var body map[string]string
	code := e.do(t, http.MethodGet, "/board", e.root, nil, &body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NoTenantAssociation", body["reason"])

	var board workflow.Board
	code = e.do(t, http.MethodGet, "/board?office="+e.officeB.String(), e.root, nil, &board)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, board.Columns, 1)
	assert.Equal(t, e.statusB.ID, board.Columns[0].Status.ID)
}

// A role change takes effect on the next request, not the next login.
func TestRoleChangeAppliesImmediately(t *testing.T) {
	e := newEnv(t)

	var users []models.User
	code := e.do(t, http.MethodGet, "/users", e.adminA, nil, &users)
	require.Equal(t, http.StatusOK, code)
	var ivo models.User
	for _, u := range users {
		if u.Email == "ivo@a.test" {
			ivo = u
		}
	}
	require.NotEqual(t, uuid.Nil, ivo.ID)

	code = e.do(t, http.MethodPut, "/users/"+ivo.ID.String()+"/role", e.adminA,
		map[string]string{"role": string(models.RoleArchitect)}, nil)
	require.Equal(t, http.StatusOK, code)

	// The same old token now carries architect rights.
	code = e.do(t, http.MethodPost, "/workflow-statuses", e.internA,
		map[string]string{"name": "Review"}, nil)
	assert.Equal(t, http.StatusCreated, code)
}
