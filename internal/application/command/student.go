// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the owning service.
package command

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentCommand contains the fields a client may set.
type CreateStudentCommand struct {
	Name  string
	Email string
	Age   *int
	Major *string
	GPA   *float64
}

// CreateStudentHandler validates and stores a new directory record.
type CreateStudentHandler struct {
	repo student.Repository
	log  *logger.Logger
}

// NewCreateStudentHandler creates a new handler.
func NewCreateStudentHandler(repo student.Repository, log *logger.Logger) *CreateStudentHandler {
	return &CreateStudentHandler{repo: repo, log: orDiscard(log)}
}

// Handle executes the command.
func (h *CreateStudentHandler) Handle(ctx context.Context, cmd CreateStudentCommand) (*student.Student, error) {
	s := &student.Student{
		Name:  cmd.Name,
		Email: cmd.Email,
		Age:   cmd.Age,
		Major: cmd.Major,
		GPA:   cmd.GPA,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	h.log.Info("student created", logger.StudentID(s.ID))
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentHandler removes a directory record. Grades referencing the
// student are owned by the ledger and stay; they surface as missing
// references afterwards.
type DeleteStudentHandler struct {
	repo student.Repository
	log  *logger.Logger
}

// NewDeleteStudentHandler creates a new handler.
func NewDeleteStudentHandler(repo student.Repository, log *logger.Logger) *DeleteStudentHandler {
	return &DeleteStudentHandler{repo: repo, log: orDiscard(log)}
}

// Handle executes the command.
func (h *DeleteStudentHandler) Handle(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.WrapError("command", "DeleteStudent", shared.ErrInvalidID, "id must be a positive integer", nil)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return err
	}
	h.log.Info("student deleted", logger.StudentID(id))
	return nil
}

func orDiscard(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Discard()
	}
	return log
}
