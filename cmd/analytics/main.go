// Package main runs the Analytics service. It owns no data: every request
// fetches the directory and the ledger concurrently and aggregates the join.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campus-hub/grading-system/internal/application/query"
	"github.com/campus-hub/grading-system/internal/bootstrap"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/upstream"
	apihttp "github.com/campus-hub/grading-system/internal/interface/http"
	"github.com/campus-hub/grading-system/pkg/logger"
)

const service = "analytics"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rt, err := bootstrap.New(service)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.Config

	rt.Log.Info("starting Analytics",
		logger.String("student_directory", cfg.Upstream.StudentDirectoryURL),
		logger.String("grade_ledger", cfg.Upstream.GradeLedgerURL),
		logger.Duration("upstream_timeout", cfg.Upstream.Timeout))

	students := upstream.NewStudentDirectoryClient(rt.Upstream(cfg.Upstream.StudentDirectoryURL))
	grades := upstream.NewGradeLedgerClient(rt.Upstream(cfg.Upstream.GradeLedgerURL))
	rt.Health.AddChecker(students)
	rt.Health.AddChecker(grades)

	fetcher := query.NewFetcher(students, grades, rt.Log)

	deps := rt.Dependencies()
	deps.Analytics = &apihttp.AnalyticsDeps{
		StudentGPA:      query.NewGetStudentGPAHandler(fetcher),
		CourseAverage:   query.NewGetCourseAverageHandler(fetcher),
		SemesterSummary: query.NewGetSemesterSummaryHandler(fetcher),
		TopStudents:     query.NewGetTopStudentsHandler(fetcher),
	}

	return rt.Serve(ctx, apihttp.NewServer(rt.ServerConfig(service), deps))
}
