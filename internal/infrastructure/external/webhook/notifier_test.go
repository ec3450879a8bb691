package webhook

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
)

var sampleGrade = grade.Grade{
	ID:        22,
	StudentID: 1,
	Course:    "CS101",
	Letter:    grade.Letter("A-"),
	Semester:  "Fall 2024",
	Credits:   4,
}

func newNotifier(opts Options) (*Notifier, *memory.NotificationStore, *memory.DeliveryTracker) {
	repo := memory.NewNotificationStore()
	tracker := memory.NewDeliveryTracker()
	return NewNotifier(opts, repo, tracker, nil), repo, tracker
}

func TestNotifyGradeCreated_DeliversBothTargets(t *testing.T) {
	var got Payload
	var data GradeData
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GradeNotificationPath, r.URL.Path)
		var raw struct {
			Payload
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		got = raw.Payload
		require.NoError(t, json.Unmarshal(raw.Data, &data))
	}))
	defer receiver.Close()

	external := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Alice Johnson", r.URL.Query().Get("student"))
		assert.Equal(t, "A-", r.URL.Query().Get("grade"))
	}))
	defer external.Close()

	n, repo, tracker := newNotifier(Options{Enabled: true, URL: receiver.URL, ExternalURL: external.URL})

	items := n.NotifyGradeCreated(context.Background(), sampleGrade, "Alice Johnson")

	require.Len(t, items, 2)
	assert.Equal(t, notification.TargetWebhook, items[0].Target)
	assert.Equal(t, notification.TargetExternal, items[1].Target)
	for _, item := range items {
		assert.Equal(t, notification.StatusSent, item.Status)
		assert.Equal(t, int64(22), item.GradeID)
		assert.True(t, item.ID.IsValid())
	}

	assert.Equal(t, notification.EventGradeCreated, got.Event)
	assert.Equal(t, "New grade A- for Alice Johnson in CS101", got.Message)
	assert.Equal(t, GradeData{
		StudentID: 1, StudentName: "Alice Johnson", Course: "CS101",
		Grade: "A-", Semester: "Fall 2024", Credits: 4,
	}, data)

	stats, err := tracker.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAttempts)
	assert.Equal(t, int64(1), stats.TotalSuccesses)
	assert.Nil(t, stats.LastError)

	recent, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestNotifyGradeCreated_Non200IsFailure(t *testing.T) {
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer receiver.Close()

	n, _, tracker := newNotifier(Options{Enabled: true, URL: receiver.URL})
	items := n.NotifyGradeCreated(context.Background(), sampleGrade, "Alice Johnson")

	require.Len(t, items, 1)
	assert.Equal(t, notification.StatusFailed, items[0].Status)
	assert.Equal(t, http.StatusAccepted, items[0].HTTPStatus)
	assert.False(t, items[0].Blocked)

	stats, _ := tracker.Stats(context.Background())
	assert.Equal(t, int64(1), stats.TotalFailures)
	require.NotNil(t, stats.LastError)
	assert.Contains(t, *stats.LastError, "202")
}

func TestNotifyGradeCreated_RefusedConnectionIsBlocked(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	n, _, _ := newNotifier(Options{Enabled: true, URL: "http://" + addr})
	items := n.NotifyGradeCreated(context.Background(), sampleGrade, "Alice Johnson")

	require.Len(t, items, 1)
	assert.Equal(t, notification.StatusFailed, items[0].Status)
	assert.True(t, items[0].Blocked)
}

func TestNotifyGradeCreated_TimeoutIsBlocked(t *testing.T) {
	release := make(chan struct{})
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer receiver.Close()
	defer close(release)

	n, _, _ := newNotifier(Options{Enabled: true, URL: receiver.URL, Timeout: 50 * time.Millisecond})
	items := n.NotifyGradeCreated(context.Background(), sampleGrade, "Alice Johnson")

	require.Len(t, items, 1)
	assert.True(t, items[0].Blocked)
}

func TestNotifyGradeCreated_DisabledSkipsWebhook(t *testing.T) {
	n, _, tracker := newNotifier(Options{Enabled: false, URL: "http://unused"})

	items := n.NotifyGradeCreated(context.Background(), sampleGrade, "Alice Johnson")

	assert.Empty(t, items)
	stats, _ := tracker.Stats(context.Background())
	assert.Zero(t, stats.TotalAttempts)
}

func TestSendTestAndStatus(t *testing.T) {
	var event notification.Event
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		event = p.Event
	}))
	defer receiver.Close()

	n, _, _ := newNotifier(Options{Enabled: false, URL: receiver.URL})

	item := n.SendTest(context.Background())
	assert.Equal(t, notification.StatusSent, item.Status)
	assert.Equal(t, notification.EventTest, event)

	status, err := n.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.WebhookEnabled)
	assert.Equal(t, receiver.URL, status.WebhookURL)
	assert.Equal(t, int64(1), status.Stats.TotalSuccesses)
}
