package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/slok/staffboard/internal/model"
)

// CreateTaskRequest is the body of a task creation.
type CreateTaskRequest struct {
	Codename     string `json:"codename"`
	StaffingTime string `json:"staffing_time"`
	Notes        string `json:"notes"`
}

// MoveTaskRequest is the body of a task move.
type MoveTaskRequest struct {
	Column string `json:"column"`
}

// MoveActiveTaskRequest is the body of an active task move by board position.
type MoveActiveTaskRequest struct {
	Index *int `json:"index"`
}

// UpdateNotesRequest is the body of a notes update.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

func ValidateCreateTaskRequest(r *CreateTaskRequest) error {
	if strings.TrimSpace(r.Codename) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "codename is required")
	}
	if strings.TrimSpace(r.StaffingTime) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "staffing_time is required")
	}
	return nil
}

// ValidateMoveTaskRequest validates the move request returning the destination column.
func ValidateMoveTaskRequest(r *MoveTaskRequest) (model.Column, error) {
	if r.Column == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "column is required")
	}
	c, err := model.ParseColumn(r.Column)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c, nil
}

func ValidateMoveActiveTaskRequest(r *MoveActiveTaskRequest) error {
	if r.Index == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "index is required")
	}
	return nil
}
