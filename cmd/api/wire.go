//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewBookRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookhouse/internal/application/book"
	appcirculation "github.com/xiebiao/bookhouse/internal/application/circulation"
	appreporting "github.com/xiebiao/bookhouse/internal/application/reporting"
	appshelving "github.com/xiebiao/bookhouse/internal/application/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/config"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookhouse/internal/interface/http/handler"
	"github.com/xiebiao/bookhouse/internal/interface/http/middleware"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load, // 加载配置文件
	mysql.NewDB, // 创建MySQL连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewAuthorRepository,
	mysql.NewPublicationTypeRepository,
	mysql.NewLibrarianRepository,
	mysql.NewReaderRepository,
	mysql.NewHallRepository,
	mysql.NewCaseRepository,
	mysql.NewShelfRepository,
	mysql.NewBookRepository,
	mysql.NewJournalRepository,
	mysql.NewReportingQueries,
	mysql.NewTxManager, // 事务管理器
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewManageBookUseCase,
	appshelving.NewHallUseCase,
	appshelving.NewCaseUseCase,
	appshelving.NewShelfUseCase,
	appcirculation.NewCheckOutBookUseCase,
	appcirculation.NewReturnBookUseCase,
	appreporting.NewReportsUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewCatalogHandler,
	handler.NewBookHandler,
	handler.NewShelvingHandler,
	handler.NewCirculationHandler,
	handler.NewReportingHandler,
)

// provideGinEngine 创建并配置Gin引擎
// 路由在此注册:Wire会自动注入所有Handler
func provideGinEngine(
	cfg *config.Config,
	catalogHandler *handler.CatalogHandler,
	bookHandler *handler.BookHandler,
	shelvingHandler *handler.ShelvingHandler,
	circulationHandler *handler.CirculationHandler,
	reportingHandler *handler.ReportingHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 指标、Swagger与业务路由统一在registerRoutes注册
	registerRoutes(r, cfg, catalogHandler, bookHandler, shelvingHandler, circulationHandler, reportingHandler)

	return r
}

// InitializeApp 初始化整个应用
// Wire会在编译期分析依赖关系,在wire_gen.go中生成初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 应用层
		applicationSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值是占位符,实际运行时由wire_gen.go替代
	return nil, nil
}
