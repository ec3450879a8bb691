package http

import (
	"net/http"

	"github.com/campus-hub/grading-system/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS HANDLERS
// Responses are deterministic for unchanged upstream data and carry an ETag.
// ══════════════════════════════════════════════════════════════════════════════

// handleStudentGPA handles GET /api/analytics/students/{id}/gpa
func (s *Server) handleStudentGPA(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Analytics.StudentGPA.Handle(r.Context(), query.GetStudentGPAQuery{StudentID: id})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCacheable(w, r, Response{Success: true, Data: res.Data, Warnings: res.Warnings})
}

// handleCourseAverage handles GET /api/analytics/courses/{course}/average
func (s *Server) handleCourseAverage(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Analytics.CourseAverage.Handle(r.Context(), query.GetCourseAverageQuery{
		Course: r.PathValue("course"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCacheable(w, r, Response{Success: true, Data: res.Data, Warnings: res.Warnings})
}

// handleSemesterSummary handles GET /api/analytics/semesters/{semester}/summary
func (s *Server) handleSemesterSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Analytics.SemesterSummary.Handle(r.Context(), query.GetSemesterSummaryQuery{
		Semester: r.PathValue("semester"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCacheable(w, r, Response{Success: true, Data: res.Data, Warnings: res.Warnings})
}

// handleTopStudents handles GET /api/analytics/top-students?limit=
func (s *Server) handleTopStudents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Analytics.TopStudents.Handle(r.Context(), query.GetTopStudentsQuery{Limit: limit})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n := len(res.Data)
	writeCacheable(w, r, Response{Success: true, Count: &n, Data: res.Data, Warnings: res.Warnings})
}
