package orchestrators

import (
	"context"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/services"
)

// TraceOperation checks that an artifact can be retrieved without downloading it
type TraceOperation struct {
	gateway    gateways.ArtifactoryGateway
	classifier services.ClassificationService
	logger     interfaces.Logger
}

// NewTraceOperation creates a new trace operation
func NewTraceOperation(gateway gateways.ArtifactoryGateway, classifier services.ClassificationService, logger interfaces.Logger) *TraceOperation {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &TraceOperation{gateway: gateway, classifier: classifier, logger: logger}
}

// Name returns the operation name
func (o *TraceOperation) Name() string {
	return string(entities.OperationCheck)
}

// FailureCategory returns the category recorded when a trace cannot complete
func (o *TraceOperation) FailureCategory() entities.Category {
	return entities.CategoryTraceFailed
}

// Process traces path and classifies the response
func (o *TraceOperation) Process(ctx context.Context, path string) entities.Category {
	trace, err := o.gateway.Trace(ctx, path)
	category := o.classifier.ClassifyTrace(trace, err == nil)

	switch category {
	case entities.CategoryTraceable:
		o.logger.Debug("artifact traceable", interfaces.F("path", path))
	case entities.CategoryUntraceable:
		o.logger.Info("artifact untraceable", interfaces.F("path", path))
	default:
		o.logger.Error("trace failed", interfaces.F("path", path),
			interfaces.F("kind", string(gateways.FailureKindOf(err))), interfaces.Err(err))
	}

	return category
}

// DeleteOperation removes an artifact unless it is, or may be, a folder
type DeleteOperation struct {
	gateway    gateways.ArtifactoryGateway
	classifier services.ClassificationService
	logger     interfaces.Logger
}

// NewDeleteOperation creates a new delete operation
func NewDeleteOperation(gateway gateways.ArtifactoryGateway, classifier services.ClassificationService, logger interfaces.Logger) *DeleteOperation {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DeleteOperation{gateway: gateway, classifier: classifier, logger: logger}
}

// Name returns the operation name
func (o *DeleteOperation) Name() string {
	return string(entities.OperationDelete)
}

// FailureCategory returns the category recorded when a delete cannot complete
func (o *DeleteOperation) FailureCategory() entities.Category {
	return entities.CategoryNotDeleted
}

// Process deletes path. Folders and paths whose type cannot be determined are skipped.
func (o *DeleteOperation) Process(ctx context.Context, path string) entities.Category {
	if o.classifier.IsFolder(ctx, path) {
		o.logger.Info("path is a folder, not deleting", interfaces.F("path", path))
		return entities.CategoryIsFolder
	}

	if err := o.gateway.Delete(ctx, path); err != nil {
		o.logger.Error("delete failed", interfaces.F("path", path),
			interfaces.F("kind", string(gateways.FailureKindOf(err))), interfaces.Err(err))
		return entities.CategoryNotDeleted
	}

	o.logger.Info("artifact deleted", interfaces.F("path", path))
	return entities.CategoryDeleted
}
