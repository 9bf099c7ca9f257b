package tax

import (
	"github.com/hengly4433/hotel-system/internal/tax/repository"
	"github.com/hengly4433/hotel-system/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.resolver",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewResolver),
)
