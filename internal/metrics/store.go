package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameStoreOperations        = "store_operations"
	NameStoreOperationDuration = "store_operation_duration_seconds"
	NameCacheLookups           = "cache_lookups"
	LabelOperation             = "operation"
	LabelStatus                = "status"
	LabelResult                = "result"

	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

var StoreOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameStoreOperations,
		Help:      "Task store operations",
		Namespace: Namespace,
	},
	[]string{LabelOperation, LabelStatus},
)

var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameStoreOperationDuration,
		Help:      "Task store operations duration",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelOperation},
)

var CacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameCacheLookups,
		Help:      "Task cache lookups",
		Namespace: Namespace,
	},
	[]string{LabelResult},
)
