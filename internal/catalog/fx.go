package catalog

import (
	"github.com/hengly4433/hotel-system/internal/catalog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.Provide),
)
