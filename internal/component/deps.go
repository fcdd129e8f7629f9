// internal/component/deps.go
package component

import (
	"context"

	"github.com/yanizio/abalone/internal/form"
	"github.com/yanizio/abalone/internal/measurement"
	"github.com/yanizio/abalone/internal/predictor"
	"github.com/yanizio/abalone/internal/view"
)

// Predictor is the part of *predictor.Client that pages call.
type Predictor interface {
	Predict(ctx context.Context, p measurement.Payload) (*predictor.Result, error)
	Health(ctx context.Context) (*predictor.Health, error)
}

// ModelInfo is satisfied by *modelinfo.Cache and *predictor.Client.
type ModelInfo interface {
	ModelInfo(ctx context.Context) (*predictor.ModelInfo, error)
}

// Deps exposes the shared services to components during Init.
type Deps struct {
	Views     *view.Engine
	CSRF      *form.CSRF
	Predictor Predictor
	ModelInfo ModelInfo
}
