package sitesetting

import (
	"github.com/studiolane/studiolane/internal/sitesetting/repository"
	"github.com/studiolane/studiolane/internal/sitesetting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sitesetting.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
