//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/phanxgames/biovis/config"
	"github.com/phanxgames/biovis/internal/app"
)

// InitializeApp builds the demo app from configuration.
func InitializeApp(cfg *config.Config) (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
