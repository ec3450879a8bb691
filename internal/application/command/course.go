package command

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// CreateCourseHandler stores a new catalog entry.
type CreateCourseHandler struct {
	repo course.Repository
	log  *logger.Logger
}

// NewCreateCourseHandler creates a new handler.
func NewCreateCourseHandler(repo course.Repository, log *logger.Logger) *CreateCourseHandler {
	return &CreateCourseHandler{repo: repo, log: orDiscard(log)}
}

// Handle validates c, assigns its id and stores it.
func (h *CreateCourseHandler) Handle(ctx context.Context, c course.Course) (*course.Course, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	h.log.Info("course created", logger.Int64("course_id", c.ID), logger.String("code", c.Code))
	return &c, nil
}

// DeleteCourseHandler removes a catalog entry.
type DeleteCourseHandler struct {
	repo course.Repository
}

// NewDeleteCourseHandler creates a new handler.
func NewDeleteCourseHandler(repo course.Repository) *DeleteCourseHandler {
	return &DeleteCourseHandler{repo: repo}
}

// Handle executes the command.
func (h *DeleteCourseHandler) Handle(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.WrapError("command", "DeleteCourse", shared.ErrInvalidID, "id must be a positive integer", nil)
	}
	return h.repo.Delete(ctx, id)
}
