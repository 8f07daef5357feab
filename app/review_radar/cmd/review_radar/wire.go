//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final binary.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/review_radar/app/review_radar/internal/server"
	"github.com/iWorld-y/review_radar/app/review_radar/internal/usecase"
	"github.com/iWorld-y/review_radar/app/review_radar/pkg/config"
)

// initApp init kratos application.
func initApp(*config.Config, *logrus.Logger, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		newApp,
	))
}

// initUseCase 命令行模式不启动 HTTP 服务，直接使用 usecase
func initUseCase(*config.Config, *logrus.Logger, log.Logger) (*usecase.ReviewUseCase, func(), error) {
	panic(wire.Build(
		server.UseCaseSet,
	))
}
