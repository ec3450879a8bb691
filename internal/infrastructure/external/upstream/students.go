package upstream

import (
	"context"
	"fmt"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// StudentDirectoryClient reads the Student Directory.
type StudentDirectoryClient struct {
	*Client
}

// NewStudentDirectoryClient creates a client for the Student Directory.
func NewStudentDirectoryClient(opts Options) *StudentDirectoryClient {
	return &StudentDirectoryClient{Client: NewClient(shared.UpstreamStudentDirectory, opts)}
}

// ListStudents fetches every student.
func (c *StudentDirectoryClient) ListStudents(ctx context.Context) ([]student.Student, error) {
	var env Envelope[[]student.Student]
	if err := c.getJSON(ctx, "ListStudents", "/api/students", &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, shared.UpstreamUnavailable(c.name, "ListStudents", errUnsuccessful(env.Error))
	}
	if env.Data == nil {
		env.Data = []student.Student{}
	}
	return env.Data, nil
}

// GetStudent fetches one student. An unknown id yields an error matching
// shared.ErrNotFound.
func (c *StudentDirectoryClient) GetStudent(ctx context.Context, id int64) (*student.Student, error) {
	var env Envelope[student.Student]
	if err := c.getJSON(ctx, "GetStudent", fmt.Sprintf("/api/students/%d", id), &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, shared.UpstreamUnavailable(c.name, "GetStudent", errUnsuccessful(env.Error))
	}
	return &env.Data, nil
}

func errUnsuccessful(body *ErrorBody) error {
	if body == nil {
		return fmt.Errorf("response reported failure")
	}
	return fmt.Errorf("%s: %s", body.Code, body.Message)
}
