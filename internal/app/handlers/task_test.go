package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
	"github.com/kalpovskii/taskmanager/internal/app/repositories"
	"github.com/kalpovskii/taskmanager/internal/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := services.NewTaskService(repositories.NewMemoryTaskStore(), nil)
	return NewRouter(svc)
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeTask(t *testing.T, resp *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	return task
}

func TestHealth(t *testing.T) {
	resp := doRequest(setupTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestCreateTask(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	task := decodeTask(t, resp)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusTodo, task.Status)
}

func TestCreateTask_IgnoresClientID(t *testing.T) {
	router := setupTestRouter(t)
	clientID := uuid.New()

	resp := doRequest(router, http.MethodPost, "/tasks", `{"id":"`+clientID.String()+`","title":"x","status":"DONE"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	task := decodeTask(t, resp)
	assert.NotEqual(t, clientID, task.ID)
	assert.Equal(t, models.StatusDone, task.Status)
}

func TestCreateTask_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{invalid"},
		{name: "blank title", body: `{"title":"   "}`},
		{name: "missing title", body: `{"description":"no title"}`},
		{name: "unknown status", body: `{"title":"t","status":"WAITING"}`},
		{name: "description too long", body: `{"title":"t","description":"` + strings.Repeat("d", 1001) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(t)

			resp := doRequest(router, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)

			list := doRequest(router, http.MethodGet, "/tasks", "")
			assert.JSONEq(t, `[]`, list.Body.String())
		})
	}
}

func TestListTasks(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	doRequest(router, http.MethodPost, "/tasks", `{"title":"t1"}`)
	doRequest(router, http.MethodPost, "/tasks", `{"title":"t2"}`)

	resp = doRequest(router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].Title)
	assert.Equal(t, "t2", tasks[1].Title)
}

func TestGetTask(t *testing.T) {
	router := setupTestRouter(t)
	created := decodeTask(t, doRequest(router, http.MethodPost, "/tasks", `{"title":"find me"}`))

	resp := doRequest(router, http.MethodGet, "/tasks/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, created.ID, decodeTask(t, resp).ID)

	resp = doRequest(router, http.MethodGet, "/tasks/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"error":"task not found"}`, resp.Body.String())

	resp = doRequest(router, http.MethodGet, "/tasks/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateTask(t *testing.T) {
	router := setupTestRouter(t)
	created := decodeTask(t, doRequest(router, http.MethodPost, "/tasks", `{"title":"Buy milk"}`))
	path := "/tasks/" + created.ID.String()

	resp := doRequest(router, http.MethodPut, path,
		`{"id":"`+uuid.NewString()+`","title":"Buy milk and eggs","description":"urgent","status":"DONE"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	updated := decodeTask(t, resp)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Buy milk and eggs", updated.Title)
	assert.Equal(t, "urgent", updated.Description)
	assert.Equal(t, models.StatusDone, updated.Status)

	// null description clears it
	resp = doRequest(router, http.MethodPut, path, `{"title":"Buy milk","description":null,"status":"TODO"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeTask(t, resp).Description)
}

func TestUpdateTask_WithoutStatus(t *testing.T) {
	router := setupTestRouter(t)
	created := decodeTask(t, doRequest(router, http.MethodPost, "/tasks", `{"title":"Buy milk","status":"DONE"}`))
	require.Equal(t, models.StatusDone, created.Status)

	resp := doRequest(router, http.MethodPut, "/tasks/"+created.ID.String(), `{"title":"Buy eggs"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	updated := decodeTask(t, resp)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Buy eggs", updated.Title)
	assert.Equal(t, models.StatusTodo, updated.Status)

	resp = doRequest(router, http.MethodPut, "/tasks/"+created.ID.String(), `{"title":"Buy eggs","status":"LATER"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), `"field":"status"`)
}

func TestUpdateTask_Errors(t *testing.T) {
	router := setupTestRouter(t)
	created := decodeTask(t, doRequest(router, http.MethodPost, "/tasks", `{"title":"x"}`))

	resp := doRequest(router, http.MethodPut, "/tasks/"+uuid.NewString(), `{"title":"ghost","status":"TODO"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(router, http.MethodPut, "/tasks/"+created.ID.String(), `{"title":"","status":"TODO"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), `"field":"title"`)

	resp = doRequest(router, http.MethodPut, "/tasks/"+created.ID.String(), "{")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doRequest(router, http.MethodPut, "/tasks/123", `{"title":"x","status":"TODO"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteTask(t *testing.T) {
	router := setupTestRouter(t)
	created := decodeTask(t, doRequest(router, http.MethodPost, "/tasks", `{"title":"bye"}`))
	path := "/tasks/" + created.ID.String()

	resp := doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = doRequest(router, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(router, http.MethodDelete, "/tasks/nope", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

type failingService struct {
	err error
}

func (f failingService) GetAllTasks(context.Context) ([]models.Task, error) { return nil, f.err }
func (f failingService) GetTaskByID(context.Context, uuid.UUID) (*models.Task, error) {
	return nil, f.err
}
func (f failingService) CreateTask(context.Context, models.Task) (*models.Task, error) {
	return nil, f.err
}
func (f failingService) UpdateTask(context.Context, uuid.UUID, models.Task) (*models.Task, error) {
	return nil, f.err
}
func (f failingService) DeleteTask(context.Context, uuid.UUID) (bool, error) { return false, f.err }

func TestStoreErrorsAreInternal(t *testing.T) {
	router := NewRouter(failingService{err: errors.New("db down")})
	id := uuid.NewString()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks", ""},
		{http.MethodGet, "/tasks/" + id, ""},
		{http.MethodPost, "/tasks", `{"title":"t"}`},
		{http.MethodPut, "/tasks/" + id, `{"title":"t","status":"TODO"}`},
		{http.MethodDelete, "/tasks/" + id, ""},
	} {
		resp := doRequest(router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, resp.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"db down"}`, resp.Body.String())
	}
}
