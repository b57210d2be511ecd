package templatesync

import (
	"github.com/studiolane/studiolane/internal/templatesync/service"
	"go.uber.org/fx"
)

var Module = fx.Module("templatesync.service",
	fx.Provide(service.NewService),
)
