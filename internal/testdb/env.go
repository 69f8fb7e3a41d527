package testdb

import (
	"os"
	"testing"
)

// Environment variables checked for the test database URL, in order.
const (
	EnvTestDatabaseURL = "MEDLEX_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// DatabaseURL returns the configured test database URL, or "".
func DatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkip reports whether no test database is configured.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// SkipIfNoDatabase skips t when no test database is configured. In CI a
// missing database fails the test instead, so integration coverage cannot
// silently disappear.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if !ShouldSkip() {
		return
	}
	if isCIEnvironment() {
		t.Fatalf("%s is not set in CI", EnvTestDatabaseURL)
	}
	t.Skipf("integration test: set %s to run", EnvTestDatabaseURL)
}

func isCIEnvironment() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
