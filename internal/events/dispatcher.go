// Package events carries domain events out of the process. The real
// dispatcher lives outside this system; this one logs each event so the
// pipeline is observable in development.
package events

import (
	"context"
	"log"

	"food-ordering/internal/domain"
)

type LogDispatcher struct {
	logger *log.Logger
}

func NewLogDispatcher(logger *log.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, event domain.Event) {
	d.logger.Printf("event %s: %+v", event.EventName(), event)
}
