// Package webhook delivers grade events to the configured receivers and
// records every attempt as a notification.Notification.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// GradeNotificationPath is appended to the receiver base URL.
const GradeNotificationPath = "/webhook/grade-notification"

// Observer counts delivery outcomes. Optional.
type Observer interface {
	ObserveDelivery(target, status string, blocked bool)
}

// Options configures the notifier.
type Options struct {
	Enabled     bool
	URL         string
	ExternalURL string
	Timeout     time.Duration

	// Source names the sending service in test payloads.
	Source string

	HTTPClient *http.Client
	Observer   Observer
}

// Payload is the JSON body POSTed to the receiver.
type Payload struct {
	Event     notification.Event `json:"event"`
	Timestamp string             `json:"timestamp"`
	Data      any                `json:"data"`
	Message   string             `json:"message"`
}

// GradeData is the data part of a grade_created payload.
type GradeData struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	Course      string `json:"course"`
	Grade       string `json:"grade"`
	Semester    string `json:"semester"`
	Credits     int    `json:"credits"`
}

// Status is the webhook configuration and delivery counters.
type Status struct {
	WebhookURL     string                     `json:"webhook_url"`
	WebhookEnabled bool                       `json:"webhook_enabled"`
	ExternalURL    string                     `json:"external_url,omitempty"`
	Stats          notification.DeliveryStats `json:"stats"`
}

// Notifier sends grade notifications.
type Notifier struct {
	opts    Options
	http    *http.Client
	repo    notification.Repository
	tracker notification.DeliveryTracker
	log     *logger.Logger

	now   func() time.Time
	newID func() notification.NotificationID
}

// NewNotifier creates a notifier. repo may be nil; tracker may not.
func NewNotifier(opts Options, repo notification.Repository, tracker notification.DeliveryTracker, log *logger.Logger) *Notifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Source == "" {
		opts.Source = "grade-ledger"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Notifier{
		opts:    opts,
		http:    opts.HTTPClient,
		repo:    repo,
		tracker: tracker,
		log:     log.With(logger.Component("webhook")),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() notification.NotificationID { return notification.NotificationID(uuid.NewString()) },
	}
}

// NotifyGradeCreated sends the webhook POST and the external GET in
// parallel. The returned slice has the webhook attempt first. Delivery
// outlives the caller's cancellation but not the notifier timeout.
func (n *Notifier) NotifyGradeCreated(ctx context.Context, g grade.Grade, studentName string) []notification.Notification {
	ctx = context.WithoutCancel(ctx)

	var webhook, external *notification.Notification
	var eg errgroup.Group

	if n.opts.Enabled && n.opts.URL != "" {
		eg.Go(func() error {
			payload := Payload{
				Event:     notification.EventGradeCreated,
				Timestamp: n.now().Format(time.RFC3339),
				Data: GradeData{
					StudentID:   g.StudentID,
					StudentName: studentName,
					Course:      g.Course,
					Grade:       string(g.Letter),
					Semester:    g.Semester,
					Credits:     g.Credits,
				},
				Message: fmt.Sprintf("New grade %s for %s in %s", g.Letter, studentName, g.Course),
			}
			webhook = n.post(ctx, notification.EventGradeCreated, g, payload)
			return nil
		})
	}

	if n.opts.ExternalURL != "" {
		eg.Go(func() error {
			external = n.probe(ctx, g, studentName)
			return nil
		})
	}

	_ = eg.Wait()

	out := make([]notification.Notification, 0, 2)
	for _, item := range []*notification.Notification{webhook, external} {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// SendTest posts a test payload to the receiver regardless of Enabled.
func (n *Notifier) SendTest(ctx context.Context) notification.Notification {
	payload := Payload{
		Event:     notification.EventTest,
		Timestamp: n.now().Format(time.RFC3339),
		Data:      map[string]string{"message": "Test webhook from " + n.opts.Source},
		Message:   "Test notification",
	}
	return *n.post(ctx, notification.EventTest, grade.Grade{}, payload)
}

// Status reports configuration and delivery counters.
func (n *Notifier) Status(ctx context.Context) (*Status, error) {
	stats, err := n.tracker.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("delivery stats: %w", err)
	}
	return &Status{
		WebhookURL:     n.opts.URL,
		WebhookEnabled: n.opts.Enabled,
		ExternalURL:    n.opts.ExternalURL,
		Stats:          stats,
	}, nil
}

// post delivers a payload to the receiver and updates the counters.
func (n *Notifier) post(ctx context.Context, event notification.Event, g grade.Grade, payload Payload) *notification.Notification {
	target := strings.TrimRight(n.opts.URL, "/") + GradeNotificationPath
	item := n.start(event, notification.TargetWebhook, target, g)

	n.record("attempt", n.tracker.RecordAttempt(ctx, item.CreatedAt))

	body, err := json.Marshal(payload)
	if err != nil {
		n.fail(ctx, item, err.Error(), false, 0)
		return item
	}

	status, err := n.send(ctx, http.MethodPost, target, body)
	n.finish(ctx, item, status, err)

	if item.Status == notification.StatusSent {
		n.record("success", n.tracker.RecordSuccess(ctx, *item.CompletedAt))
	} else {
		n.record("failure", n.tracker.RecordFailure(ctx, item.Error))
	}
	return item
}

// probe issues the httpbin-style GET with the grade as query parameters.
func (n *Notifier) probe(ctx context.Context, g grade.Grade, studentName string) *notification.Notification {
	q := url.Values{}
	q.Set("event", string(notification.EventGradeCreated))
	q.Set("student", studentName)
	q.Set("course", g.Course)
	q.Set("grade", string(g.Letter))

	target := n.opts.ExternalURL
	if strings.Contains(target, "?") {
		target += "&" + q.Encode()
	} else {
		target += "?" + q.Encode()
	}

	item := n.start(notification.EventGradeCreated, notification.TargetExternal, n.opts.ExternalURL, g)
	status, err := n.send(ctx, http.MethodGet, target, nil)
	n.finish(ctx, item, status, err)
	return item
}

func (n *Notifier) start(event notification.Event, target notification.Target, url string, g grade.Grade) *notification.Notification {
	return &notification.Notification{
		ID:        n.newID(),
		Event:     event,
		Target:    target,
		URL:       url,
		GradeID:   g.ID,
		StudentID: g.StudentID,
		Status:    notification.StatusPending,
		CreatedAt: n.now(),
	}
}

func (n *Notifier) send(ctx context.Context, method, target string, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// finish marks the outcome: only a 200 counts as delivered.
func (n *Notifier) finish(ctx context.Context, item *notification.Notification, status int, err error) {
	switch {
	case err != nil:
		n.fail(ctx, item, err.Error(), isBlocked(err), 0)
	case status != http.StatusOK:
		n.fail(ctx, item, fmt.Sprintf("unexpected status %d", status), false, status)
	default:
		_ = item.MarkSent(status, n.now())
		n.log.Info("notification delivered",
			logger.String("target", string(item.Target)),
			logger.String("url", item.URL),
			logger.GradeID(item.GradeID))
		n.save(ctx, item)
	}
	if n.opts.Observer != nil {
		n.opts.Observer.ObserveDelivery(string(item.Target), string(item.Status), item.Blocked)
	}
}

func (n *Notifier) fail(ctx context.Context, item *notification.Notification, reason string, blocked bool, status int) {
	_ = item.MarkFailed(reason, blocked, status, n.now())
	n.log.Warn("notification failed",
		logger.String("target", string(item.Target)),
		logger.String("url", item.URL),
		logger.Bool("blocked", blocked),
		logger.String("reason", reason))
	n.save(ctx, item)
}

func (n *Notifier) save(ctx context.Context, item *notification.Notification) {
	if n.repo == nil {
		return
	}
	if err := n.repo.Save(ctx, item); err != nil {
		n.log.Error("failed to save notification", logger.Err(err))
	}
}

func (n *Notifier) record(what string, err error) {
	if err != nil {
		n.log.Error("failed to update delivery stats", logger.String("counter", what), logger.Err(err))
	}
}

// isBlocked reports errors where the receiver never answered: timeouts and
// refused or unroutable connections.
func isBlocked(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
