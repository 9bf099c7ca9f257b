package providers

import (
	"github.com/hengly4433/hotel-system/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
