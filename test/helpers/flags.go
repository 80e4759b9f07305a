package helpers

import (
	"flag"
	"os"
	"strconv"
	"testing"
)

// Test flags. NX_E2E_DEBUG and NX_E2E_SKIP_CLEANUP enable them too, for runs
// where passing flags through go test is awkward.
var (
	debugFlag       = flag.Bool("nx.debug", false, "Log every nx invocation with its stdout and stderr")
	skipCleanupFlag = flag.Bool("nx.skipcleanup", false, "Keep test workspaces on disk after the tests finish")
)

func envBool(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}

// IsDebugEnabled returns true if debug mode is enabled
func IsDebugEnabled() bool {
	return *debugFlag || envBool("NX_E2E_DEBUG")
}

// ShouldSkipCleanup returns true if test cleanup should be skipped
func ShouldSkipCleanup() bool {
	return *skipCleanupFlag || envBool("NX_E2E_SKIP_CLEANUP")
}

// Debugf logs a debug message if debug mode is enabled
func Debugf(t testing.TB, format string, args ...interface{}) {
	t.Helper()
	if IsDebugEnabled() {
		t.Logf("[DEBUG] "+format, args...)
	}
}
