// Package main runs the Course Catalog service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campus-hub/grading-system/internal/application/command"
	"github.com/campus-hub/grading-system/internal/bootstrap"
	"github.com/campus-hub/grading-system/internal/domain/course"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/seed"
	apihttp "github.com/campus-hub/grading-system/internal/interface/http"
	"github.com/campus-hub/grading-system/pkg/logger"
)

const service = "course-catalog"

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

	rt.Log.Info("starting Course Catalog", logger.String("version", rt.Config.App.Version))

	conn, err := rt.Postgres(ctx, postgres.CourseMigrations())
	if err != nil {
		return err
	}
	var repo course.Repository = memory.NewCourseStore()
	if conn != nil {
		repo = postgres.NewCourseRepository(conn)
	}

	if rt.Config.App.SeedData {
		n, err := seed.LoadCourses(ctx, repo)
		if err != nil {
			return err
		}
		rt.Log.Info("seed data loaded", logger.Int("courses", n))
	}

	deps := rt.Dependencies()
	deps.Catalog = &apihttp.CatalogDeps{
		Courses: repo,
		Create:  command.NewCreateCourseHandler(repo, rt.Log),
		Delete:  command.NewDeleteCourseHandler(repo),
	}

	return rt.Serve(ctx, apihttp.NewServer(rt.ServerConfig(service), deps))
}
