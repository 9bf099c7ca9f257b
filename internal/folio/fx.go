package folio

import (
	"github.com/hengly4433/hotel-system/internal/folio/repository"
	"github.com/hengly4433/hotel-system/internal/folio/service"
	"go.uber.org/fx"
)

var Module = fx.Module("folio.ledger",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
