// Package testutil holds helpers shared by package tests: site output assertions,
// throwaway git repositories and a recording slog handler.
package testutil
