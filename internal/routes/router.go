package routes

import (
	"todo-api/internal/controller"
	"todo-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Router(items *controller.Items) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// Health for load balancers and K8s probes
	router.GET("/health", items.Health)
	router.GET("/ready", items.Ready)

	router.GET("/todos", items.List)
	router.POST("/todos", items.Create)
	router.PUT("/todos/:id", items.Update)

	return router
}
