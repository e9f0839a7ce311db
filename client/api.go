// client/api.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/henrylimaSaas/ArchFlow-master/internal/models"
	"github.com/henrylimaSaas/ArchFlow-master/internal/workflow"
)

// Session carries everything a call needs: base URL and bearer token. It is
// passed explicitly into the API, never read from ambient storage, so two
// sessions against two offices can coexist in one process.
type Session struct {
	BaseURL string
	Token   string
}

// APIError is a non-2xx response from the server. Domain rejections
// (InvalidStatus, DuplicateStatusName, ...) arrive here with their status
// code and message.
type APIError struct {
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api: %d %s (%s)", e.StatusCode, e.Message, e.Reason)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// API is a typed client over the HTTP surface.
type API struct {
	sess Session
	http *http.Client
}

func New(sess Session) *API {
	return &API{sess: sess, http: &http.Client{Timeout: 15 * time.Second}}
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(a.sess.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.sess.Token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error, Reason: apiErr.Reason}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges credentials for a bearer token. The caller builds a new
// Session from the result; the API value itself stays credential-free.
func (a *API) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	err := a.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, &res)
	return res, err
}

func (a *API) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := a.do(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}

// Board fetches the authoritative board state.
func (a *API) Board(ctx context.Context) (workflow.Board, error) {
	var b workflow.Board
	err := a.do(ctx, http.MethodGet, "/board", nil, &b)
	return b, err
}

func (a *API) Statuses(ctx context.Context) ([]models.WorkflowStatus, error) {
	var list []models.WorkflowStatus
	err := a.do(ctx, http.MethodGet, "/workflow-statuses", nil, &list)
	return list, err
}

func (a *API) CreateStatus(ctx context.Context, in workflow.CreateStatusInput) (models.WorkflowStatus, error) {
	var s models.WorkflowStatus
	err := a.do(ctx, http.MethodPost, "/workflow-statuses", in, &s)
	return s, err
}

func (a *API) CreateTask(ctx context.Context, in workflow.CreateTaskInput) (models.Task, error) {
	var t models.Task
	err := a.do(ctx, http.MethodPost, "/tasks", in, &t)
	return t, err
}

// MoveTask asks the server to put the task into the given column.
func (a *API) MoveTask(ctx context.Context, taskID, statusID uuid.UUID) (models.Task, error) {
	var t models.Task
	err := a.do(ctx, http.MethodPut, "/tasks/"+taskID.String()+"/move",
		map[string]uuid.UUID{"status_id": statusID}, &t)
	return t, err
}
