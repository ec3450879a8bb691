package http

import (
	"net/http"

	"github.com/campus-hub/grading-system/internal/application/command"
	"github.com/campus-hub/grading-system/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT DIRECTORY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/students?search=&major=
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.deps.Directory.Students.List(r.Context(), student.Filter{
		Search: getQueryParam(r, "search"),
		Major:  getQueryParam(r, "major"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(students, len(students)))
}

// handleListMajors handles GET /api/students/majors
func (s *Server) handleListMajors(w http.ResponseWriter, r *http.Request) {
	majors, err := s.deps.Directory.Students.Majors(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(majors))
}

// handleGetStudent handles GET /api/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.deps.Directory.Students.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(st))
}

type createStudentRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Age   *int     `json:"age"`
	Major *string  `json:"major"`
	GPA   *float64 `json:"gpa"`
}

// handleCreateStudent handles POST /api/students
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.deps.Directory.Create.Handle(r.Context(), command.CreateStudentCommand{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
		Major: req.Major,
		GPA:   req.GPA,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(st))
}

// handleDeleteStudent handles DELETE /api/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Directory.Delete.Handle(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(map[string]int64{"deleted": id}))
}
