package invoice

import (
	"go.uber.org/fx"

	"github.com/maplebill/maplebill/internal/invoice/repository"
	"github.com/maplebill/maplebill/internal/invoice/service"
)

var Module = fx.Module("invoice",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewFactoryRegistry),
	fx.Provide(service.New),
)
