package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/internal/infrastructure/external/upstream"
	"github.com/campus-hub/grading-system/pkg/retry"
)

const defaultTimeout = upstream.DefaultTimeout

type globalOptions struct {
	directoryURL string
	ledgerURL    string
	catalogURL   string
	analyticsURL string
	timeout      time.Duration
	retries      int
	json         bool
}

func (o *globalOptions) upstream(baseURL string) upstream.Options {
	return upstream.Options{
		BaseURL: baseURL,
		Timeout: o.timeout,
		// Stays closed across all --retries attempts.
		BreakerThreshold: o.retries + 2,
	}
}

func (o *globalOptions) directory() *upstream.StudentDirectoryClient {
	return upstream.NewStudentDirectoryClient(o.upstream(o.directoryURL))
}

func (o *globalOptions) ledger() *upstream.GradeLedgerClient {
	return upstream.NewGradeLedgerClient(o.upstream(o.ledgerURL))
}

func (o *globalOptions) analytics() *upstream.AnalyticsClient {
	return upstream.NewAnalyticsClient(o.upstream(o.analyticsURL))
}

func (o *globalOptions) catalog() *upstream.Client {
	return upstream.NewClient(shared.UpstreamCourseCatalog, o.upstream(o.catalogURL))
}

// call runs op, retrying only while the target reports itself unavailable.
// Retry notices go to stderr.
func call[T any](ctx context.Context, o *globalOptions, stderr io.Writer, op func(context.Context) (T, error)) (T, error) {
	var out T
	r := retry.CLIRetrier(o.retries+1, shared.IsUpstreamUnavailable, func(attempt int, err error, delay time.Duration) {
		fmt.Fprintf(stderr, "attempt %d failed: %v (retrying in %s)\n", attempt, err, delay.Round(time.Millisecond))
	})
	err := r.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = op(ctx)
		return err
	})
	return out, err
}
