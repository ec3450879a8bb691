// Package memory provides mutex-guarded in-process stores for every
// repository interface. They back a service when no DATABASE_URL is set
// and serve as fakes in tests.
package memory
