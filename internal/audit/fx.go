package audit

import (
	"github.com/hengly4433/hotel-system/internal/audit/repository"
	"github.com/hengly4433/hotel-system/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
