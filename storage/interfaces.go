package storage

import "bess-tracker/models"

// DatasetWriter is the interface any merged-dataset sink must satisfy.
type DatasetWriter interface {
	Write(records []*models.ProjectRecord) error
	Close() error
}

// SummaryAppender persists one summary row per qualifying run.
type SummaryAppender interface {
	Append(summary *models.Summary) (string, error)
}
