package availability

import (
	"github.com/hengly4433/hotel-system/internal/availability/repository"
	"github.com/hengly4433/hotel-system/internal/availability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("availability.calculator",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
