package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameTaskEvents = "task_events"
	LabelEvent     = "event"

	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

var TaskEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameTaskEvents,
		Help:      "Task lifecycle events",
		Namespace: Namespace,
	},
	[]string{LabelEvent},
)
