package tax

import (
	"go.uber.org/fx"

	"github.com/maplebill/maplebill/internal/tax/repository"
	"github.com/maplebill/maplebill/internal/tax/service"
)

var Module = fx.Module("tax",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewEngine),
)
