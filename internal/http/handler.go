package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slok/staffboard/internal/board"
	"github.com/slok/staffboard/internal/http/validators"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
)

// Board are the board operations exposed over HTTP.
type Board interface {
	CreateTask(ctx context.Context, req board.CreateTaskRequest) (*model.Task, error)
	TaskView(ctx context.Context, id string) (model.TaskView, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListTasksByColumn(ctx context.Context, column model.Column) ([]model.Task, error)
	UpdateNotes(ctx context.Context, id, notes string) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	StartTimer(ctx context.Context, id string) (*model.Task, error)
	PauseTimer(ctx context.Context, id string) (*model.Task, error)
	ToggleTimer(ctx context.Context, id string) (*model.Task, error)
	MoveTask(ctx context.Context, id string, dest model.Column) (*board.MoveResult, error)
	MoveActiveTask(ctx context.Context, columnIndex int) (*board.MoveResult, error)
	ArchiveTask(ctx context.Context, id string) (*model.AnalyticsEntry, error)
	Snapshot(ctx context.Context) (model.BoardSnapshot, error)
	ListAnalytics(ctx context.Context) ([]model.AnalyticsEntry, error)
	AnalyticsSummary(ctx context.Context) (model.AnalyticsSummary, error)
	Verify(ctx context.Context) (board.VerifyReport, error)
}

var _ Board = &board.Service{}

type Handler struct {
	board  Board
	logger log.Logger
}

func NewHandler(b Board, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.Noop
	}

	return &Handler{
		board:  b,
		logger: logger,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req validators.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.board.CreateTask(c.Request().Context(), board.CreateTaskRequest{
		Codename:             req.Codename,
		StaffingTimeEstimate: req.StaffingTime,
		Notes:                req.Notes,
	})
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusCreated, mapTask(*task))
}

func (h *Handler) GetTask(c echo.Context) error {
	v, err := h.board.TaskView(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapTaskView(v))
}

func (h *Handler) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		tasks []model.Task
		err   error
	)
	if column := c.QueryParam("column"); column != "" {
		col, perr := model.ParseColumn(column)
		if perr != nil {
			return h.mapError(perr)
		}
		tasks, err = h.board.ListTasksByColumn(ctx, col)
	} else {
		tasks, err = h.board.ListTasks(ctx)
	}
	if err != nil {
		return h.mapError(err)
	}

	res := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, mapTask(t))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(res),
		"tasks": res,
	})
}

func (h *Handler) UpdateNotes(c echo.Context) error {
	var req validators.UpdateNotesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.board.UpdateNotes(c.Request().Context(), c.Param("id"), req.Notes)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapTask(*task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.board.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return h.mapError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) StartTimer(c echo.Context) error {
	return h.timerOp(c, h.board.StartTimer)
}

func (h *Handler) PauseTimer(c echo.Context) error {
	return h.timerOp(c, h.board.PauseTimer)
}

func (h *Handler) ToggleTimer(c echo.Context) error {
	return h.timerOp(c, h.board.ToggleTimer)
}

func (h *Handler) timerOp(c echo.Context, op func(ctx context.Context, id string) (*model.Task, error)) error {
	task, err := op(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapTask(*task))
}

func (h *Handler) MoveTask(c echo.Context) error {
	var req validators.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	dest, err := validators.ValidateMoveTaskRequest(&req)
	if err != nil {
		return err
	}

	res, err := h.board.MoveTask(c.Request().Context(), c.Param("id"), dest)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapMove(*res))
}

func (h *Handler) MoveActiveTask(c echo.Context) error {
	var req validators.MoveActiveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateMoveActiveTaskRequest(&req); err != nil {
		return err
	}

	res, err := h.board.MoveActiveTask(c.Request().Context(), *req.Index)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapMove(*res))
}

func (h *Handler) ArchiveTask(c echo.Context) error {
	entry, err := h.board.ArchiveTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapEntry(*entry))
}

func (h *Handler) Board(c echo.Context) error {
	snap, err := h.board.Snapshot(c.Request().Context())
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapBoard(snap))
}

func (h *Handler) Verify(c echo.Context) error {
	report, err := h.board.Verify(c.Request().Context())
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapVerify(report))
}

func (h *Handler) ListAnalytics(c echo.Context) error {
	entries, err := h.board.ListAnalytics(c.Request().Context())
	if err != nil {
		return h.mapError(err)
	}

	res := make([]analyticsEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, mapEntry(e))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":   len(res),
		"entries": res,
	})
}

func (h *Handler) AnalyticsSummary(c echo.Context) error {
	summary, err := h.board.AnalyticsSummary(c.Request().Context())
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, mapSummary(summary))
}

// mapError maps board errors to HTTP errors.
func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrNotValid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrAlreadyExists),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrNotActive),
		errors.Is(err, model.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	h.logger.Errorf("Request failed: %s", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
