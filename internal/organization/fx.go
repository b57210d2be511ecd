package organization

import (
	"github.com/studiolane/studiolane/internal/organization/repository"
	"github.com/studiolane/studiolane/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
