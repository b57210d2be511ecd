package catalog

import (
	"github.com/bwmarrin/snowflake"
	"github.com/studiolane/studiolane/internal/catalog/domain"
	"github.com/studiolane/studiolane/internal/catalog/repository"
	"github.com/studiolane/studiolane/internal/catalog/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("catalog.service",
	fx.Provide(
		repository.Provide[domain.ServiceOffering],
		repository.Provide[domain.Product],
		repository.Provide[domain.Article],
		repository.Provide[domain.Course],
		provideServiceOfferings,
		provideProducts,
		provideArticles,
		provideCourses,
	),
)

func provideServiceOfferings(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.ItemRepository[domain.ServiceOffering]) domain.ItemService[domain.ServiceOffering] {
	return service.New[domain.ServiceOffering, *domain.ServiceOffering](db, log, genID, repo, domain.KindService)
}

func provideProducts(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.ItemRepository[domain.Product]) domain.ItemService[domain.Product] {
	return service.New[domain.Product, *domain.Product](db, log, genID, repo, domain.KindProduct)
}

func provideArticles(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.ItemRepository[domain.Article]) domain.ItemService[domain.Article] {
	return service.New[domain.Article, *domain.Article](db, log, genID, repo, domain.KindArticle)
}

func provideCourses(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.ItemRepository[domain.Course]) domain.ItemService[domain.Course] {
	return service.New[domain.Course, *domain.Course](db, log, genID, repo, domain.KindCourse)
}
