// Package testlog gives every test the same quiet, timestamp-free logger.
package testlog

import (
	"testing"

	"github.com/danmuck/edgecli/internal/logging"
)

// Start configures test logging and brackets the test name in the log.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logging.Infof("test.start name=%s", t.Name())
	t.Cleanup(func() {
		logging.Debugf("test.done name=%s failed=%t", t.Name(), t.Failed())
	})
}
