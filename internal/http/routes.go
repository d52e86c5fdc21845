package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"k8s.io/utils/clock"

	middleware "github.com/slok/staffboard/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, clk clock.PassiveClock) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute, clk))

	e.GET("/board", h.Board)
	e.POST("/board/verify", h.Verify)
	e.POST("/board/active/move", h.MoveActiveTask)

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.PUT("/tasks/:id/notes", h.UpdateNotes)
	e.POST("/tasks/:id/start", h.StartTimer)
	e.POST("/tasks/:id/pause", h.PauseTimer)
	e.POST("/tasks/:id/toggle", h.ToggleTimer)
	e.POST("/tasks/:id/move", h.MoveTask)
	e.POST("/tasks/:id/archive", h.ArchiveTask)

	e.GET("/analytics", h.ListAnalytics)
	e.GET("/analytics/summary", h.AnalyticsSummary)
}
