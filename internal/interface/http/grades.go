package http

import (
	"net/http"

	"github.com/campus-hub/grading-system/internal/application/command"
	"github.com/campus-hub/grading-system/internal/application/query"
	"github.com/campus-hub/grading-system/internal/domain/grade"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE LEDGER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

const defaultNotificationLimit = 50

// handleListGrades handles GET /api/grades?student_id=&course=&semester=&enrich=
func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	studentID, err := queryID(r, "student_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.deps.Ledger.Reader.List(r.Context(), query.ListGradesQuery{
		Filter: grade.Filter{
			StudentID: studentID,
			Course:    getQueryParam(r, "course"),
			Semester:  getQueryParam(r, "semester"),
		},
		Enrich: getQueryParamBool(r, "enrich", true),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingResponse(out))
}

// handleGetGrade handles GET /api/grades/{id}
func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.deps.Ledger.Reader.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := listingResponse(out)
	resp.Count = nil
	if grades, ok := out.Grades.([]grade.EnrichedGrade); ok && len(grades) == 1 {
		resp.Data = grades[0]
	}
	writeJSON(w, http.StatusOK, resp)
}

func listingResponse(out *query.GradeListing) Response {
	resp := list(out.Grades, out.Count)
	resp.Warnings = out.Warnings
	resp.Enrichment = string(out.Enrichment)
	return resp
}

// handleListSemesters handles GET /api/grades/semesters
func (s *Server) handleListSemesters(w http.ResponseWriter, r *http.Request) {
	semesters, err := s.deps.Ledger.Grades.Semesters(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(semesters))
}

// handleListGradeCourses handles GET /api/grades/courses
func (s *Server) handleListGradeCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Ledger.Grades.Courses(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(courses))
}

type createGradeRequest struct {
	StudentID int64  `json:"student_id"`
	Course    string `json:"course"`
	Grade     string `json:"grade"`
	Semester  string `json:"semester"`
	Credits   int    `json:"credits"`
}

// handleCreateGrade handles POST /api/grades
func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var req createGradeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.deps.Ledger.Create.Handle(r.Context(), command.CreateGradeCommand{
		StudentID: req.StudentID,
		Course:    req.Course,
		Letter:    req.Grade,
		Semester:  req.Semester,
		Credits:   req.Credits,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ok(res))
}

// handleDeleteGrade handles DELETE /api/grades/{id}
func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Ledger.Delete.Handle(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(map[string]int64{"deleted": id}))
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListNotifications handles GET /api/notifications?limit=
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit == 0 {
		limit = defaultNotificationLimit
	}

	items, err := s.deps.Ledger.Notifications.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(items, len(items)))
}

// handleWebhookStatus handles GET /api/webhook/status
func (s *Server) handleWebhookStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.Ledger.Webhook.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(status))
}

// handleWebhookTest handles POST /api/webhook/test
func (s *Server) handleWebhookTest(w http.ResponseWriter, r *http.Request) {
	item := s.deps.Ledger.Webhook.SendTest(r.Context())
	writeJSON(w, http.StatusOK, ok(item))
}
