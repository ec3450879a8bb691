// Package notification models grade notifications. A notification records
// one outbound delivery attempt (webhook or external address) and its result.
package notification

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// NotificationID представляет уникальный идентификатор уведомления.
type NotificationID string

// IsValid проверяет, что ID не пустой.
func (id NotificationID) IsValid() bool {
	return len(id) > 0
}

// Event определяет событие, вызвавшее уведомление.
type Event string

const (
	// EventGradeCreated - в журнал добавлена новая оценка.
	EventGradeCreated Event = "grade_created"

	// EventTest - ручная проверка доступности получателя.
	EventTest Event = "test"
)

// Target определяет, куда было отправлено уведомление.
type Target string

const (
	// TargetWebhook - POST на webhook-receiver.
	TargetWebhook Target = "webhook"

	// TargetExternal - GET на внешний адрес за пределами кластера.
	TargetExternal Target = "external"
)

// Status определяет результат доставки.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// IsFinal возвращает true, если статус больше не изменится.
func (s Status) IsFinal() bool {
	return s == StatusSent || s == StatusFailed
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// ErrAlreadyFinal возвращается при попытке изменить завершённое уведомление.
var ErrAlreadyFinal = errors.New("notification already in final state")

// Notification - запись об одной попытке доставки.
type Notification struct {
	ID        NotificationID `json:"id"`
	Event     Event          `json:"event"`
	Target    Target         `json:"target"`
	URL       string         `json:"url"`
	GradeID   int64          `json:"grade_id,omitempty"`
	StudentID int64          `json:"student_id,omitempty"`
	Status    Status         `json:"status"`

	// Blocked - соединение не установлено (таймаут или отказ), что обычно
	// означает запрет исходящего трафика сетевой политикой.
	Blocked bool   `json:"blocked"`
	Error   string `json:"error,omitempty"`

	// HTTPStatus - код ответа получателя, если ответ был.
	HTTPStatus int `json:"http_status,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MarkSent фиксирует успешную доставку.
func (n *Notification) MarkSent(httpStatus int, at time.Time) error {
	if n.Status.IsFinal() {
		return ErrAlreadyFinal
	}
	n.Status = StatusSent
	n.HTTPStatus = httpStatus
	n.CompletedAt = &at
	return nil
}

// MarkFailed фиксирует неудачную доставку.
func (n *Notification) MarkFailed(reason string, blocked bool, httpStatus int, at time.Time) error {
	if n.Status.IsFinal() {
		return ErrAlreadyFinal
	}
	n.Status = StatusFailed
	n.Error = reason
	n.Blocked = blocked
	n.HTTPStatus = httpStatus
	n.CompletedAt = &at
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELIVERY STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// DeliveryStats - счётчики попыток доставки webhook.
type DeliveryStats struct {
	TotalAttempts  int64      `json:"total_attempts"`
	TotalSuccesses int64      `json:"total_successes"`
	TotalFailures  int64      `json:"total_failures"`
	LastAttempt    *time.Time `json:"last_attempt"`
	LastSuccess    *time.Time `json:"last_success"`
	LastError      *string    `json:"last_error"`
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository хранит историю уведомлений.
type Repository interface {
	// Save сохраняет или обновляет уведомление.
	Save(ctx context.Context, n *Notification) error

	// Recent возвращает последние уведомления, новые первыми.
	Recent(ctx context.Context, limit int) ([]Notification, error)
}

// DeliveryTracker ведёт счётчики доставки. Реализации: в памяти процесса
// или в Redis, чтобы счётчики были общими для всех реплик.
type DeliveryTracker interface {
	RecordAttempt(ctx context.Context, at time.Time) error
	RecordSuccess(ctx context.Context, at time.Time) error
	RecordFailure(ctx context.Context, reason string) error
	Stats(ctx context.Context) (DeliveryStats, error)
}
