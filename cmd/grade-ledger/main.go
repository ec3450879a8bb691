// Package main runs the Grade Ledger service. Grades are stored by student
// id; names are resolved from the Student Directory at read time, and every
// new grade is announced to the webhook receiver.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campus-hub/grading-system/internal/application/command"
	"github.com/campus-hub/grading-system/internal/application/enrichment"
	"github.com/campus-hub/grading-system/internal/application/query"
	"github.com/campus-hub/grading-system/internal/bootstrap"
	"github.com/campus-hub/grading-system/internal/domain/grade"
	"github.com/campus-hub/grading-system/internal/domain/notification"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/upstream"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/webhook"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/memory"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/postgres"
	"github.com/campus-hub/grading-system/internal/infrastructure/persistence/seed"
	apihttp "github.com/campus-hub/grading-system/internal/interface/http"
	"github.com/campus-hub/grading-system/pkg/logger"
)

const service = "grade-ledger"

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
	cfg, log := rt.Config, rt.Log

	log.Info("starting Grade Ledger",
		logger.String("student_directory", cfg.Upstream.StudentDirectoryURL),
		logger.Bool("strict_enrichment", cfg.Ledger.StrictEnrichment))

	// ─────────────────────────────────────────────────────────────────────────
	// STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	conn, err := rt.Postgres(ctx, postgres.GradeMigrations())
	if err != nil {
		return err
	}
	var (
		grades        grade.Repository        = memory.NewGradeStore()
		notifications notification.Repository = memory.NewNotificationStore()
	)
	if conn != nil {
		grades = postgres.NewGradeRepository(conn)
		notifications = postgres.NewNotificationRepository(conn)
	}

	if cfg.App.SeedData {
		n, err := seed.LoadGrades(ctx, grades)
		if err != nil {
			return err
		}
		log.Info("seed data loaded", logger.Int("grades", n))
	}

	tracker, err := rt.DeliveryTracker(ctx, service)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// UPSTREAMS
	// ─────────────────────────────────────────────────────────────────────────
	directory := upstream.NewStudentDirectoryClient(rt.Upstream(cfg.Upstream.StudentDirectoryURL))
	rt.Health.AddChecker(directory)

	var recorder enrichment.Recorder
	webhookOpts := webhook.Options{
		Enabled:     cfg.Webhook.Enabled,
		URL:         cfg.Webhook.URL,
		ExternalURL: cfg.Webhook.ExternalURL,
		Timeout:     cfg.Webhook.Timeout,
		Source:      service,
	}
	if rt.Metrics != nil {
		recorder = rt.Metrics
		webhookOpts.Observer = rt.Metrics
	}
	notifier := webhook.NewNotifier(webhookOpts, notifications, tracker, log)

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP
	// ─────────────────────────────────────────────────────────────────────────
	enricher := enrichment.NewEnricher(directory, recorder, log)

	deps := rt.Dependencies()
	deps.Ledger = &apihttp.LedgerDeps{
		Reader:        query.NewGradeReader(grades, enricher, cfg.Ledger.StrictEnrichment),
		Grades:        grades,
		Create:        command.NewCreateGradeHandler(grades, directory, notifier, log),
		Delete:        command.NewDeleteGradeHandler(grades, log),
		Notifications: notifications,
		Webhook:       notifier,
	}

	return rt.Serve(ctx, apihttp.NewServer(rt.ServerConfig(service), deps))
}
