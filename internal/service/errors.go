package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrGateway      = errors.New("gateway error")
	ErrInvalidState = errors.New("invalid task state")
	ErrNotConfirmed = errors.New("confirmation required")
	ErrBusy         = errors.New("task has a change in flight")
	ErrTrashed      = errors.New("task is in trash")
)

// Confirm asks the user to approve an irreversible change. A false result
// aborts the operation before anything is written.
type Confirm func(ctx context.Context, prompt string) bool

// Confirmed approves every prompt.
func Confirmed(context.Context, string) bool { return true }

// Declined rejects every prompt.
func Declined(context.Context, string) bool { return false }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// gatewayCall runs fn under the gateway timeout and wraps any failure in
// ErrGateway, keeping the store error in the chain.
func gatewayCall(ctx context.Context, timeout time.Duration, logger *zap.Logger, op string, fn func(context.Context) error, fields ...zap.Field) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		logger.Error("gateway call failed", append(fields, zap.String("op", op), zap.Error(err))...)
		return fmt.Errorf("%w: %s: %w", ErrGateway, op, err)
	}
	return nil
}
