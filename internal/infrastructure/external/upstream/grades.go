package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/shared"
)

// GradeLedgerClient reads the Grade Ledger.
type GradeLedgerClient struct {
	*Client
}

// NewGradeLedgerClient creates a client for the Grade Ledger.
func NewGradeLedgerClient(opts Options) *GradeLedgerClient {
	return &GradeLedgerClient{Client: NewClient(shared.UpstreamGradeLedger, opts)}
}

// GradeListing is an enriched ledger listing as served to clients.
type GradeListing struct {
	Grades     []grade.EnrichedGrade
	Warnings   []shared.Warning
	Enrichment string
}

// ListGrades fetches raw grades without asking the ledger to enrich them;
// the caller joins with students itself.
func (c *GradeLedgerClient) ListGrades(ctx context.Context, f grade.Filter) ([]grade.Grade, error) {
	q := filterQuery(f)
	q.Set("enrich", "false")

	var env Envelope[[]grade.Grade]
	if err := c.getJSON(ctx, "ListGrades", "/api/grades?"+q.Encode(), &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, shared.UpstreamUnavailable(c.name, "ListGrades", errUnsuccessful(env.Error))
	}
	if env.Data == nil {
		env.Data = []grade.Grade{}
	}
	return env.Data, nil
}

// ListEnrichedGrades fetches grades with student names as the ledger
// resolves them.
func (c *GradeLedgerClient) ListEnrichedGrades(ctx context.Context, f grade.Filter) (*GradeListing, error) {
	path := "/api/grades"
	if q := filterQuery(f); len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env Envelope[[]grade.EnrichedGrade]
	if err := c.getJSON(ctx, "ListEnrichedGrades", path, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, shared.UpstreamUnavailable(c.name, "ListEnrichedGrades", errUnsuccessful(env.Error))
	}
	return &GradeListing{Grades: env.Data, Warnings: env.Warnings, Enrichment: env.Enrichment}, nil
}

func filterQuery(f grade.Filter) url.Values {
	q := url.Values{}
	if f.StudentID != 0 {
		q.Set("student_id", strconv.FormatInt(f.StudentID, 10))
	}
	if f.Course != "" {
		q.Set("course", f.Course)
	}
	if f.Semester != "" {
		q.Set("semester", f.Semester)
	}
	return q
}
