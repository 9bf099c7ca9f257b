package rate

import (
	"github.com/hengly4433/hotel-system/internal/rate/repository"
	"github.com/hengly4433/hotel-system/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.lookup",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
