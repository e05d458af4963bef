package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/services"
)

// AuditOrchestrator runs check and delete flows over a compiled work set
type AuditOrchestrator struct {
	gateway    gateways.ArtifactoryGateway
	workSet    services.WorkSetService
	classifier services.ClassificationService
	logger     interfaces.Logger
	workers    int
}

// AuditOrchestratorConfig holds configuration for the orchestrator
type AuditOrchestratorConfig struct {
	Workers int
}

// NewAuditOrchestrator creates a new audit orchestrator
func NewAuditOrchestrator(
	gateway gateways.ArtifactoryGateway,
	workSet services.WorkSetService,
	classifier services.ClassificationService,
	logger interfaces.Logger,
	config AuditOrchestratorConfig,
) *AuditOrchestrator {
	workers := config.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &AuditOrchestrator{
		gateway:    gateway,
		workSet:    workSet,
		classifier: classifier,
		logger:     logger,
		workers:    workers,
	}
}

// Check traces every artifact of the work set described by req
func (o *AuditOrchestrator) Check(ctx context.Context, req entities.WorkSetRequest) (*entities.AuditReport, error) {
	paths, err := o.workSet.CompileWorkSet(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to compile work set: %w", err)
	}

	return o.Run(ctx, entities.OperationCheck, paths)
}

// Delete removes every artifact listed in deleteFile, skipping folders
func (o *AuditOrchestrator) Delete(ctx context.Context, deleteFile string) (*entities.AuditReport, error) {
	paths, err := o.workSet.CompileWorkSet(ctx, entities.WorkSetRequest{ArtifactFile: deleteFile})
	if err != nil {
		return nil, fmt.Errorf("failed to read delete list: %w", err)
	}

	return o.Run(ctx, entities.OperationDelete, paths)
}

// Run dispatches paths across a fresh pool and collects one outcome per path.
// Paths are expected to be unique.
func (o *AuditOrchestrator) Run(ctx context.Context, operation entities.Operation, paths []string) (*entities.AuditReport, error) {
	runID := uuid.NewString()
	logger := o.logger.With(interfaces.F("run_id", runID))

	var op Operation
	switch operation {
	case entities.OperationCheck:
		op = NewTraceOperation(o.gateway, o.classifier, logger)
	case entities.OperationDelete:
		op = NewDeleteOperation(o.gateway, o.classifier, logger)
	default:
		return nil, fmt.Errorf("unknown operation %q", operation)
	}

	logger.Info("starting run", interfaces.F("operation", string(operation)),
		interfaces.F("artifacts", len(paths)), interfaces.F("workers", o.workers))

	started := time.Now()
	pool := NewPool(ctx, o.workers, op, logger)

	for _, path := range paths {
		if err := pool.Submit(path); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("failed to submit %s: %w", path, err)
		}
	}

	pool.Wait()
	if err := pool.Close(); err != nil {
		return nil, fmt.Errorf("worker pool failed: %w", err)
	}

	report := &entities.AuditReport{
		RunID:     runID,
		Operation: operation,
		StartedAt: started,
		Duration:  time.Since(started),
		Outcomes:  pool.Outcomes(),
	}

	fields := []interfaces.Field{interfaces.F("duration", report.Duration.String())}
	for category, n := range report.Counts() {
		fields = append(fields, interfaces.F(string(category), n))
	}
	logger.Info("run finished", fields...)

	return report, nil
}
