// Package main runs the Student Directory service: the source of truth for
// student records.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campus-hub/grading-system/internal/application/command"
	"github.com/campus-hub/grading-system/internal/bootstrap"
	"github.com/campus-hub/grading-system/internal/domain/student"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/seed"
	apihttp "github.com/campus-hub/grading-system/internal/interface/http"
	"github.com/campus-hub/grading-system/pkg/logger"
)

const service = "student-directory"

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
	log := rt.Log

	log.Info("starting Student Directory",
		logger.String("env", string(rt.Config.App.Environment)),
		logger.String("version", rt.Config.App.Version))

	// ─────────────────────────────────────────────────────────────────────────
	// STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := rt.Postgres(ctx, postgres.StudentMigrations())
	if err != nil {
		return err
	}
	var repo student.Repository = memory.NewStudentStore()
	if conn != nil {
		repo = postgres.NewStudentRepository(conn)
	}

	if rt.Config.App.SeedData {
		n, err := seed.LoadStudents(ctx, repo)
		if err != nil {
			return err
		}
		log.Info("seed data loaded", logger.Int("students", n))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP
	// ─────────────────────────────────────────────────────────────────────────
	deps := rt.Dependencies()
	deps.Directory = &apihttp.DirectoryDeps{
		Students: repo,
		Create:   command.NewCreateStudentHandler(repo, log),
		Delete:   command.NewDeleteStudentHandler(repo, log),
	}

	return rt.Serve(ctx, apihttp.NewServer(rt.ServerConfig(service), deps))
}
