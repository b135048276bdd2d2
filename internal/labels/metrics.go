package labels

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_manager_labels_uploaded_total",
			Help: "Label versions uploaded, by whether the SKU was found in the document text.",
		},
		[]string{"sku_matched"},
	)

	deletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_manager_labels_deleted_total",
			Help: "Labels soft-deleted, by whether an earlier version was reactivated.",
		},
		[]string{"restored"},
	)

	previewCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "label_manager_preview_cache_total",
			Help: "Preview cache lookups by result.",
		},
		[]string{"result"},
	)
)
