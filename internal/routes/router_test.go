package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"todo-api/internal/controller"
	"todo-api/internal/middleware"
	"todo-api/internal/store/memory"
	"todo-api/internal/todo"
)

func TestRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := Router(controller.NewItems(todo.NewService(memory.New()), nil))

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/todos", "", http.StatusOK},
		{http.MethodPost, "/todos", `{"text":"a"}`, http.StatusOK},
		{http.MethodPut, "/todos/x", `{}`, http.StatusBadRequest},
		{http.MethodDelete, "/todos/x", "", http.StatusNotFound},
		{http.MethodGet, "/todos/x", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if w.Code != tc.status {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, w.Code, tc.status)
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("%s %s: missing request id header", tc.method, tc.path)
		}
	}
}
