// Package handlers contains the health checking and middleware building
// blocks used by the HTTP server.
//
// Readiness checks run in parallel, each under its own timeout:
//
//	checker := handlers.NewCompositeHealthChecker("0.1.0")
//	checker.AddChecker(studentDirectoryClient)
//	checker.AddChecker(db)
//
//	status := checker.Check(ctx)
//
// Middleware composes with Chain; the first middleware is the outermost:
//
//	h := handlers.ChainHandler(mux,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	)
package handlers
