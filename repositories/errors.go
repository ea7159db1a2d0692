package repositories

import (
	"context"
	"errors"
	"fmt"

	"rayob-cms/models"
)

// translateErr maps persistence failures onto the public error kinds.
// Classified errors pass through, deadline overruns become Timeout and
// everything else is wrapped with op for the logs.
func translateErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *models.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.ErrTimeout
	}
	return fmt.Errorf("%s: %w", op, err)
}
