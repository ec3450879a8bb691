// Command campusctl is the operator CLI for the grading services. It reads
// through the same HTTP APIs that clients use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "campusctl",
		Short:         "campusctl - query the campus grading services",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.directoryURL, "directory-url", envOr("CAMPUS_STUDENT_DIRECTORY_URL", "http://localhost:8081"), "Student Directory base URL")
	f.StringVar(&opts.ledgerURL, "ledger-url", envOr("CAMPUS_GRADE_LEDGER_URL", "http://localhost:8082"), "Grade Ledger base URL")
	f.StringVar(&opts.catalogURL, "catalog-url", envOr("CAMPUS_COURSE_CATALOG_URL", "http://localhost:8083"), "Course Catalog base URL")
	f.StringVar(&opts.analyticsURL, "analytics-url", envOr("CAMPUS_ANALYTICS_URL", "http://localhost:8084"), "Analytics base URL")
	f.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Per-request timeout")
	f.IntVar(&opts.retries, "retries", 0, "Retries when a service is unavailable")
	f.BoolVarP(&opts.json, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(studentsCmd(opts))
	rootCmd.AddCommand(gradesCmd(opts))
	rootCmd.AddCommand(gpaCmd(opts))
	rootCmd.AddCommand(courseCmd(opts))
	rootCmd.AddCommand(semesterCmd(opts))
	rootCmd.AddCommand(topCmd(opts))
	rootCmd.AddCommand(statusCmd(opts))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
