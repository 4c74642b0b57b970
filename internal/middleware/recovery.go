package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/errors"
	"go.uber.org/zap"
)

// Recover runs fn and converts a panic into an internal error so that one bad
// event cannot take down the gateway read loop.
func Recover(logger *zap.Logger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				zap.Any("panic", r),
				zap.String("op", name),
				zap.String("stack", string(debug.Stack())),
			)
			err = errors.Internal("panic handling "+name, fmt.Errorf("%v", r))
		}
	}()

	return fn()
}
