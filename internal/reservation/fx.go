package reservation

import (
	"github.com/hengly4433/hotel-system/internal/reservation/repository"
	"github.com/hengly4433/hotel-system/internal/reservation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reservation.engine",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
