package services

import (
	"context"
	"strings"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/services"
)

// TraceSuccessMarker is the line Artifactory emits when a simulated download succeeds
const TraceSuccessMarker = "Request succeeded"

// ClassifyTrace maps a trace result onto a check-flow category
func ClassifyTrace(trace string, fetched bool) entities.Category {
	if !fetched {
		return entities.CategoryTraceFailed
	}
	if !strings.Contains(trace, TraceSuccessMarker) {
		return entities.CategoryUntraceable
	}
	return entities.CategoryTraceable
}

// IsFolderStats decides the delete guard from a stat lookup.
// A failed lookup, a children listing or an error payload all count as a folder.
func IsFolderStats(stats entities.StorageStats, err error) bool {
	if err != nil {
		return true
	}
	return stats.HasKey("children") || stats.HasKey("errors")
}

// classificationService implements ClassificationService
type classificationService struct {
	gateway gateways.ArtifactoryGateway
	logger  interfaces.Logger
}

// NewClassificationService creates a new classification service with dependency injection
func NewClassificationService(gateway gateways.ArtifactoryGateway, logger interfaces.Logger) services.ClassificationService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &classificationService{gateway: gateway, logger: logger}
}

// ClassifyTrace maps a trace result onto a check-flow category
func (s *classificationService) ClassifyTrace(trace string, fetched bool) entities.Category {
	return ClassifyTrace(trace, fetched)
}

// IsFolder stats the path; anything but a plain file stat is treated as a folder
func (s *classificationService) IsFolder(ctx context.Context, path string) bool {
	stats, err := s.gateway.Stats(ctx, path)
	if err != nil {
		s.logger.Warn("could not stat path, treating as folder", interfaces.F("path", path), interfaces.Err(err))
	}
	return IsFolderStats(stats, err)
}
