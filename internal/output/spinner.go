package output

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title   string
	timeout time.Duration
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// WithTimeout sets the spinner timeout.
func WithTimeout(timeout time.Duration) SpinnerOption {
	return func(c *spinnerConfig) {
		c.timeout = timeout
	}
}

// RunWithSpinner executes an action with a spinner. Off a terminal the action
// runs directly.
func RunWithSpinner(ctx context.Context, action func(ctx context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	actionCtx := ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		actionCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if !IsTTY() {
		return action(actionCtx)
	}

	return awaitAction(actionCtx, action, func(ctx context.Context, results <-chan error) (error, bool, error) {
		var result error
		done := false
		err := spinner.New().Title(cfg.title).Action(func() {
			select {
			case result = <-results:
				done = true
			case <-ctx.Done():
			}
		}).Run()
		return result, done, err
	})
}

// awaitAction runs action in its own goroutine while display waits on its
// result. If display returns first, the action is cancelled and awaited.
func awaitAction(ctx context.Context, action func(ctx context.Context) error, display func(ctx context.Context, results <-chan error) (result error, done bool, err error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- action(ctx)
	}()

	result, done, displayErr := display(ctx, errCh)
	if done {
		return result
	}
	cancel()
	actionErr := <-errCh
	if displayErr != nil {
		return fmt.Errorf("spinner error: %w", displayErr)
	}
	return actionErr
}
