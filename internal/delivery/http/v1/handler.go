package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

type Handler interface {
	HandleRequestID(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandlePartialUpdateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleGetUserTasks(c *gin.Context)
	HandleGetTasksByTitle(c *gin.Context)
	HandleGetTasksByDay(c *gin.Context)
	HandleGetTasksByWeek(c *gin.Context)
	HandleGetTasksByMonth(c *gin.Context)
	HandleUpdateTaskTags(c *gin.Context)
	HandleGetRelationshipReport(c *gin.Context)
	HandleGetResolvedReport(c *gin.Context)

	HandleCreateTag(c *gin.Context)
	HandleUpdateTag(c *gin.Context)
	HandlePartialUpdateTag(c *gin.Context)
	HandleGetTags(c *gin.Context)
	HandleGetUserTags(c *gin.Context)
	HandleGetTag(c *gin.Context)
	HandleDeleteTag(c *gin.Context)
}

type handlerImpl struct {
	logger        zerolog.Logger
	tasks         services.TaskService
	tags          services.TagService
	appName       string
	location      *time.Location
	jwtIssuer     string
	jwtSigningKey []byte
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	tagService services.TagService,
	appName string,
	location *time.Location,
	jwtIssuer string,
	jwtSigningKey []byte,
) Handler {
	return &handlerImpl{
		logger:        logger.With().Str("component", "http_v1").Logger(),
		tasks:         taskService,
		tags:          tagService,
		appName:       appName,
		location:      location,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
	}
}

// RegisterRoutes mounts every endpoint of the handler on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.Use(h.HandleRequestID, h.HandleAuthMiddleware)

	tasks := router.Group("/tasks")
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("", h.HandleGetTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.PATCH("/:id", h.HandlePartialUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)
	tasks.POST("/:id/update-tags", h.HandleUpdateTaskTags)
	tasks.GET("/user-tasks/:userId", h.HandleGetUserTasks)
	tasks.GET("/tasks-by-title/:title/:userId", h.HandleGetTasksByTitle)
	tasks.GET("/tasks-by-day/:day/:userId", h.HandleGetTasksByDay)
	tasks.GET("/tasks-by-week/:week/:userId", h.HandleGetTasksByWeek)
	tasks.GET("/tasks-by-month/:month/:userId", h.HandleGetTasksByMonth)
	tasks.GET("/rel/:userId", h.HandleGetRelationshipReport)
	tasks.GET("/rel/:userId/solved", h.HandleGetResolvedReport)

	tags := router.Group("/tags")
	tags.POST("", h.HandleCreateTag)
	tags.GET("", h.HandleGetTags)
	tags.GET("/:id", h.HandleGetTag)
	tags.PUT("/:id", h.HandleUpdateTag)
	tags.PATCH("/:id", h.HandlePartialUpdateTag)
	tags.DELETE("/:id", h.HandleDeleteTag)
	tags.GET("/user-tags/:userId", h.HandleGetUserTags)
}
