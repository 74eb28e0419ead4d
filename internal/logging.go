package internal

import (
	"log"
	"os"
)

// InitLogging routes the standard logger to stdout with microsecond
// timestamps, matching the resolution of the recompute loop.
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
