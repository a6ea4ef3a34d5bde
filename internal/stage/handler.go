// Package stage defines the contract between the workflow manager and the
// units of work it drives.
package stage

import (
	"context"

	"subsync/internal/queue"
)

// Handler is implemented by each workflow stage. Prepare validates an item
// before work starts, Execute performs the work, and HealthCheck reports
// whether the stage could run at all.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}

// Health is the result of a stage readiness check.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy reports a stage as ready to run.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy reports a stage as unable to run, with the blocking detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
