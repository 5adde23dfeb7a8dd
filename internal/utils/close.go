package utils

import (
	"io"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Close closes c and ignores any error.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and logs a failure under the given component name.
func CloseLogged(c io.Closer, component string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("component", component), logger.Error(err))
	}
}
