package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/campus-hub/grading-system/internal/domain/analytics"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/upstream"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY AND LEDGER
// ══════════════════════════════════════════════════════════════════════════════

func studentsCmd(o *globalOptions) *cobra.Command {
	var major string

	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students from the Student Directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := call(cmd.Context(), o, cmd.ErrOrStderr(), o.directory().ListStudents)
			if err != nil {
				return err
			}
			if major != "" {
				kept := students[:0]
				for _, s := range students {
					if s.Major != nil && strings.EqualFold(*s.Major, major) {
						kept = append(kept, s)
					}
				}
				students = kept
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(students)
			}
			out.row("ID", "NAME", "EMAIL", "MAJOR")
			for _, s := range students {
				out.row(s.ID, s.Name, s.Email, orDash(s.Major))
			}
			out.footer("%d students", len(students))
			return out.flush()
		},
	}

	cmd.Flags().StringVar(&major, "major", "", "Only students with this major")
	return cmd
}

func gradesCmd(o *globalOptions) *cobra.Command {
	var f grade.Filter

	cmd := &cobra.Command{
		Use:   "grades",
		Short: "List grades from the Grade Ledger with student names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := call(cmd.Context(), o, cmd.ErrOrStderr(), func(ctx context.Context) (*upstream.GradeListing, error) {
				return o.ledger().ListEnrichedGrades(ctx, f)
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(listing)
			}
			out.row("ID", "STUDENT", "NAME", "COURSE", "GRADE", "SEMESTER", "CREDITS")
			for _, g := range listing.Grades {
				out.row(g.ID, g.StudentID, orDash(g.StudentName), g.Course, g.Letter, g.Semester, g.Credits)
			}
			out.footer("%d grades, enrichment %s", len(listing.Grades), orValue(listing.Enrichment, "off"))
			out.warnings(listing.Warnings)
			return out.flush()
		},
	}

	cmd.Flags().Int64Var(&f.StudentID, "student", 0, "Filter by student id")
	cmd.Flags().StringVar(&f.Course, "course", "", "Filter by course name substring")
	cmd.Flags().StringVar(&f.Semester, "semester", "", "Filter by semester")
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS
// ══════════════════════════════════════════════════════════════════════════════

func gpaCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gpa <student-id>",
		Short: "Show a student's credit-weighted GPA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			rep, err := call(cmd.Context(), o, cmd.ErrOrStderr(), func(ctx context.Context) (*upstream.Report[analytics.StudentGPA], error) {
				return o.analytics().StudentGPA(ctx, id)
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(rep.Data)
			}
			d := rep.Data
			out.row("STUDENT", "NAME", "GPA", "GRADES", "CREDITS")
			out.row(d.StudentID, d.StudentName, gpa(d.GPA), d.GradesCount, d.TotalCredits)
			return out.flush()
		},
	}
}

func courseCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "course <name>",
		Short: "Show the average GPA and grade distribution of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := call(cmd.Context(), o, cmd.ErrOrStderr(), func(ctx context.Context) (*upstream.Report[analytics.CourseAverage], error) {
				return o.analytics().CourseAverage(ctx, args[0])
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(rep.Data)
			}
			d := rep.Data
			out.row("COURSE", "AVERAGE", "GRADES", "STUDENTS")
			out.row(d.Course, gpa(d.AverageGPA), d.GradesCount, d.StudentsCount)

			var parts []string
			for _, l := range grade.Letters() {
				if n, ok := d.GradeDistribution[string(l)]; ok {
					parts = append(parts, fmt.Sprintf("%s=%d", l, n))
				}
			}
			out.footer("distribution: %s", strings.Join(parts, " "))
			out.warnings(rep.Warnings)
			return out.flush()
		},
	}
}

func semesterCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "semester <name>",
		Short: "Summarize a semester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := call(cmd.Context(), o, cmd.ErrOrStderr(), func(ctx context.Context) (*upstream.Report[analytics.SemesterSummary], error) {
				return o.analytics().SemesterSummary(ctx, args[0])
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(rep.Data)
			}
			d := rep.Data
			out.row("SEMESTER", "STUDENTS", "GRADES", "AVERAGE")
			out.row(d.Semester, d.TotalStudents, d.TotalGrades, gpa(d.AverageGPA))
			out.footer("courses: %s", strings.Join(d.Courses, ", "))
			out.warnings(rep.Warnings)
			return out.flush()
		},
	}
}

func topCmd(o *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank students by GPA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") && limit <= 0 {
				return fmt.Errorf("--limit must be a positive integer")
			}
			rep, err := call(cmd.Context(), o, cmd.ErrOrStderr(), func(ctx context.Context) (*upstream.Report[[]analytics.RankedStudent], error) {
				return o.analytics().TopStudents(ctx, limit)
			})
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				return out.json(rep.Data)
			}
			out.row("RANK", "STUDENT", "NAME", "GPA", "GRADES", "CREDITS")
			for _, r := range rep.Data {
				out.row(r.Rank, r.StudentID, r.StudentName, gpa(r.GPA), r.GradesCount, r.TotalCredits)
			}
			out.warnings(rep.Warnings)
			return out.flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of students (server default when unset)")
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

type checker interface {
	Name() string
	BaseURL() string
	Check(ctx context.Context) error
}

type serviceStatus struct {
	Service string `json:"service"`
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func statusCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the health endpoint of every service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := []checker{o.directory(), o.ledger(), o.catalog(), o.analytics()}
			results := checkAll(cmd.Context(), targets)

			out := newPrinter(cmd.OutOrStdout(), o.json)
			if o.json {
				if err := out.json(results); err != nil {
					return err
				}
			} else {
				out.row("SERVICE", "URL", "STATUS")
				for _, r := range results {
					state := "up"
					if !r.Healthy {
						state = "DOWN: " + r.Error
					}
					out.row(r.Service, r.URL, state)
				}
				if err := out.flush(); err != nil {
					return err
				}
			}

			down := 0
			for _, r := range results {
				if !r.Healthy {
					down++
				}
			}
			if down > 0 {
				return fmt.Errorf("%d of %d services unavailable", down, len(results))
			}
			return nil
		},
	}
}

func checkAll(ctx context.Context, targets []checker) []serviceStatus {
	results := make([]serviceStatus, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t checker) {
			defer wg.Done()
			r := serviceStatus{Service: t.Name(), URL: t.BaseURL(), Healthy: true}
			if err := t.Check(ctx); err != nil {
				r.Healthy = false
				r.Error = err.Error()
			}
			results[i] = r
		}(i, t)
	}
	wg.Wait()
	return results
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func gpa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
