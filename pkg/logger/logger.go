package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stdlib-backed printf logger with a component prefix. It
// writes to stderr so stdout stays reserved for payload dumps, and it is
// the shape the cron driver expects for its verbose logging.
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stderr, prefix, log.LstdFlags)
}
