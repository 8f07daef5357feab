package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/data"
	"github.com/iWorld-y/review_radar/app/review_radar/internal/service"
	"github.com/iWorld-y/review_radar/app/review_radar/internal/usecase"
)

// UseCaseSet 命令行直接使用的依赖集合
var UseCaseSet = wire.NewSet(
	// Data providers
	data.NewData,
	data.NewReviewRepo,

	// UseCase providers
	usecase.NewReviewUseCase,
)

// ProviderSet 是评论服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	UseCaseSet,

	// Service providers
	service.NewReviewService,
)
