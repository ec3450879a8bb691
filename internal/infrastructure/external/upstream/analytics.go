package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// AnalyticsClient reads the aggregation engine. It is used by campusctl.
type AnalyticsClient struct {
	*Client
}

// NewAnalyticsClient creates a client for the analytics service.
func NewAnalyticsClient(opts Options) *AnalyticsClient {
	return &AnalyticsClient{Client: NewClient(shared.UpstreamAnalytics, opts)}
}

// Report is a computed statistic with its warnings.
type Report[T any] struct {
	Data     T
	Warnings []shared.Warning
}

// StudentGPA fetches one student's GPA.
func (c *AnalyticsClient) StudentGPA(ctx context.Context, studentID int64) (*Report[analytics.StudentGPA], error) {
	return fetchReport[analytics.StudentGPA](ctx, c.Client, "StudentGPA",
		fmt.Sprintf("/api/analytics/students/%d/gpa", studentID))
}

// CourseAverage fetches course statistics.
func (c *AnalyticsClient) CourseAverage(ctx context.Context, course string) (*Report[analytics.CourseAverage], error) {
	return fetchReport[analytics.CourseAverage](ctx, c.Client, "CourseAverage",
		"/api/analytics/courses/"+url.PathEscape(course)+"/average")
}

// SemesterSummary fetches the pooled semester summary.
func (c *AnalyticsClient) SemesterSummary(ctx context.Context, semester string) (*Report[analytics.SemesterSummary], error) {
	return fetchReport[analytics.SemesterSummary](ctx, c.Client, "SemesterSummary",
		"/api/analytics/semesters/"+url.PathEscape(semester)+"/summary")
}

// TopStudents fetches the ranking. limit 0 uses the server default.
func (c *AnalyticsClient) TopStudents(ctx context.Context, limit int) (*Report[[]analytics.RankedStudent], error) {
	path := "/api/analytics/top-students"
	if limit != 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return fetchReport[[]analytics.RankedStudent](ctx, c.Client, "TopStudents", path)
}

func fetchReport[T any](ctx context.Context, c *Client, op, path string) (*Report[T], error) {
	var env Envelope[T]
	if err := c.getJSON(ctx, op, path, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, shared.UpstreamUnavailable(c.name, op, errUnsuccessful(env.Error))
	}
	return &Report[T]{Data: env.Data, Warnings: env.Warnings}, nil
}
