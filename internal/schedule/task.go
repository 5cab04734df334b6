package schedule

import "context"

// Task is one schedulable unit of work, driven by the main loop.
type Task interface {
	Run(ctx context.Context) error
	Name() string
}
