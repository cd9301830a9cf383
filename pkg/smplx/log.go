package smplx

import (
	"sync"

	"github.com/Faultbox/smplxgo/internal/logger"
)

var logOnce sync.Once

// ensureLogger lazily initializes the package logger with sane defaults so
// LoadModel/LoadSequence can log without requiring every caller (including
// tests) to have called logger.Init first, the way the CLI tools do.
func ensureLogger() {
	logOnce.Do(func() {
		if logger.Sugar == nil {
			_ = logger.Init("info", "")
		}
	})
}
