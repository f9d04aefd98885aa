package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
	"todo-api/internal/models"
	"todo-api/internal/todo"
	"todo-api/pkg/logger"
)

const maxBodyBytes = 1 << 20

// ItemService is the handler core the controller serves.
type ItemService interface {
	Create(ctx context.Context, raw []byte) (models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	Update(ctx context.Context, id string, raw []byte) (models.Item, error)
}

// PingFunc reports whether the backing store is reachable.
type PingFunc func(ctx context.Context) error

// Items serves the /todos endpoints.
type Items struct {
	svc   ItemService
	ping  PingFunc
	lists singleflight.Group
}

func NewItems(svc ItemService, ping PingFunc) *Items {
	return &Items{svc: svc, ping: ping}
}

// Create handles POST /todos.
func (h *Items) Create(c *gin.Context) {
	ctx := c.Request.Context()
	raw, err := readBody(c)
	if err != nil {
		writeError(c, &todo.ValidationError{Op: todo.OpCreate, Reason: err.Error()})
		return
	}
	item, err := h.svc.Create(ctx, raw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// List handles GET /todos. Concurrent requests share one store read.
func (h *Items) List(c *gin.Context) {
	ctx := c.Request.Context()
	v, err, _ := h.lists.Do("todos", func() (interface{}, error) {
		return h.svc.List(context.WithoutCancel(ctx))
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v.([]models.Item))
}

// Update handles PUT /todos/:id.
func (h *Items) Update(c *gin.Context) {
	ctx := c.Request.Context()
	raw, err := readBody(c)
	if err != nil {
		writeError(c, &todo.ValidationError{Op: todo.OpUpdate, Reason: err.Error()})
		return
	}
	item, err := h.svc.Update(ctx, c.Param("id"), raw)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Health returns 200 if the process is alive. Used by load balancers.
func (h *Items) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the store is reachable. Used by K8s readiness probes.
func (h *Items) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			logger.Warn(ctx, "Readiness ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}

func readBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
}

// writeError renders err as a plain-text body with a fixed message.
func writeError(c *gin.Context, err error) {
	var vErr *todo.ValidationError
	var sf *todo.StoreFailure
	switch {
	case errors.As(err, &vErr):
		c.String(http.StatusBadRequest, vErr.Message())
	case errors.As(err, &sf):
		c.String(sf.Status(), sf.Message())
	default:
		logger.Error(c.Request.Context(), "Unexpected handler error", "error", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
