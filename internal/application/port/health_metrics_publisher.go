package port

import (
	"context"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
)

// HealthMetricsPublisher defines the interface for publishing health assessment
// metrics to external observability platforms.
// This port allows the application layer to publish metrics without coupling to specific implementations.
type HealthMetricsPublisher interface {
	// PublishAssessment publishes the numeric series of one assessment
	// (MFI, OMHS, MTBF, availability and per-mode indices).
	// Implementations should handle batching constraints (e.g., CloudWatch's 1000 metrics/request limit).
	PublishAssessment(ctx context.Context, assessment *dto.AssessmentDTO) error

	// Flush forces immediate publication of any buffered metrics.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}
