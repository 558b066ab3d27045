// Package handler contains HTTP handlers grouped by domain in subpackages:
// reservation lifecycle, hotel inventory, billing, auth, and admin operations.
//
// This file exists so tooling (e.g. `swag init --dir ./internal/handler`) can
// treat `internal/handler` as a valid Go package and avoid "no Go files" warnings.
package handler
