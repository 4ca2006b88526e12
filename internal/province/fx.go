package province

import (
	"go.uber.org/fx"

	"github.com/maplebill/maplebill/internal/province/repository"
)

var Module = fx.Module("province",
	fx.Provide(repository.Provide),
)
