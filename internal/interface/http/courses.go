package http

import (
	"net/http"

	"github.com/campus-hub/grading-system/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses handles GET /api/courses?semester=
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Catalog.Courses.List(r.Context(), getQueryParam(r, "semester"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(courses, len(courses)))
}

// handleGetCourse handles GET /api/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Catalog.Courses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(c))
}

// handleCreateCourse handles POST /api/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req course.Course
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.ID = 0

	c, err := s.deps.Catalog.Create.Handle(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(c))
}

// handleDeleteCourse handles DELETE /api/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Catalog.Delete.Handle(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(map[string]int64{"deleted": id}))
}
