package command

import (
	"context"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE GRADE COMMAND
// Проверяет студента через Student Directory, сохраняет оценку и
// уведомляет внешних получателей. Ошибка уведомления не отменяет запись.
// ══════════════════════════════════════════════════════════════════════════════

// StudentVerifier resolves a student by id.
type StudentVerifier interface {
	GetStudent(ctx context.Context, id int64) (*student.Student, error)
}

// GradeNotifier delivers grade events. It reports every attempt it made,
// successful or not.
type GradeNotifier interface {
	NotifyGradeCreated(ctx context.Context, g grade.Grade, studentName string) []notification.Notification
}

// CreateGradeCommand contains the submitted grade.
type CreateGradeCommand struct {
	StudentID int64
	Course    string
	Letter    string
	Semester  string
	Credits   int
}

// CreateGradeResult is the stored grade plus the outbound delivery attempts.
type CreateGradeResult struct {
	Grade         grade.EnrichedGrade         `json:"grade"`
	Notifications []notification.Notification `json:"notifications"`
}

// CreateGradeHandler обрабатывает создание оценки.
type CreateGradeHandler struct {
	repo     grade.Repository
	students StudentVerifier
	notifier GradeNotifier
	log      *logger.Logger
}

// NewCreateGradeHandler создаёт новый обработчик. notifier может быть nil.
func NewCreateGradeHandler(repo grade.Repository, students StudentVerifier, notifier GradeNotifier, log *logger.Logger) *CreateGradeHandler {
	return &CreateGradeHandler{
		repo:     repo,
		students: students,
		notifier: notifier,
		log:      orDiscard(log).With(logger.Component("create_grade")),
	}
}

// Handle validates the grade, checks that the student exists, stores the
// grade and then notifies.
//
// An unknown student is a validation error. An unreachable directory is an
// UpstreamUnavailable error and nothing is stored.
func (h *CreateGradeHandler) Handle(ctx context.Context, cmd CreateGradeCommand) (*CreateGradeResult, error) {
	g := grade.Grade{
		StudentID: cmd.StudentID,
		Course:    cmd.Course,
		Letter:    grade.Letter(cmd.Letter),
		Semester:  cmd.Semester,
		Credits:   cmd.Credits,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	s, err := h.students.GetStudent(ctx, g.StudentID)
	switch {
	case err == nil:
	case shared.IsNotFound(err):
		return nil, shared.Validation("grade", "Create", "student %d not found", g.StudentID)
	case shared.IsUpstreamUnavailable(err):
		return nil, err
	default:
		return nil, shared.UpstreamUnavailable(shared.UpstreamStudentDirectory, "GetStudent", err)
	}

	if err := h.repo.Create(ctx, &g); err != nil {
		return nil, err
	}
	h.log.Info("grade created",
		logger.GradeID(g.ID),
		logger.StudentID(g.StudentID),
		logger.String("course", g.Course),
		logger.String("grade", string(g.Letter)),
	)

	name := s.Name
	res := &CreateGradeResult{
		Grade:         grade.EnrichedGrade{Grade: g, StudentName: &name},
		Notifications: []notification.Notification{},
	}
	if h.notifier != nil {
		res.Notifications = h.notifier.NotifyGradeCreated(ctx, g, s.Name)
	}
	return res, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteGradeHandler removes a ledger record.
type DeleteGradeHandler struct {
	repo grade.Repository
	log  *logger.Logger
}

// NewDeleteGradeHandler creates a new handler.
func NewDeleteGradeHandler(repo grade.Repository, log *logger.Logger) *DeleteGradeHandler {
	return &DeleteGradeHandler{repo: repo, log: orDiscard(log)}
}

// Handle executes the command.
func (h *DeleteGradeHandler) Handle(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.WrapError("command", "DeleteGrade", shared.ErrInvalidID, "id must be a positive integer", nil)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return err
	}
	h.log.Info("grade deleted", logger.GradeID(id))
	return nil
}
