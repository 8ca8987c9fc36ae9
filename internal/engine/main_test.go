package engine

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no test in this package leaks goroutines; the
// manager's lifecycle handling must not leave backend work running.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
