package httpapi

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"sourcing-engine/internal/config"
	"sourcing-engine/internal/events"
	"sourcing-engine/internal/pipeline"
)

// BatchRunner runs a batch of job pipelines. Injected for testability.
type BatchRunner interface {
	RunBatch(ctx context.Context, reqID string, jobs []pipeline.JobSpec) []pipeline.JobResult
}

type Deps struct {
	Log *zap.Logger

	Hub *events.Hub

	// Core operations
	Discoverer pipeline.Discoverer
	Resolver   pipeline.ProfileResolver
	Batch      BatchRunner

	// Atomic store; holds config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
