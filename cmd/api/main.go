package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookhouse/docs"

	appbook "github.com/xiebiao/bookhouse/internal/application/book"
	appcirculation "github.com/xiebiao/bookhouse/internal/application/circulation"
	appreporting "github.com/xiebiao/bookhouse/internal/application/reporting"
	appshelving "github.com/xiebiao/bookhouse/internal/application/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/config"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookhouse/internal/interface/http/handler"
	"github.com/xiebiao/bookhouse/internal/interface/http/middleware"
	"github.com/xiebiao/bookhouse/pkg/metrics"
	"github.com/xiebiao/bookhouse/pkg/response"
	"github.com/xiebiao/bookhouse/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入(wire.go提供等价的Wire注入器)
//
// @title        bookhouse API
// @version      1.0
// @description  图书馆藏书登记与流转服务
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// 2. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 3. 初始化监控指标
	metrics.InitMetrics()

	// 4. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer shutdown(context.Background())
	}

	// 5. 依赖注入(手动组装)
	// 依赖链:Repository ← UseCase ← Handler

	// 基础设施层
	txManager := mysql.NewTxManager(db)
	authorRepo := mysql.NewAuthorRepository(db)
	pubTypeRepo := mysql.NewPublicationTypeRepository(db)
	librarianRepo := mysql.NewLibrarianRepository(db)
	readerRepo := mysql.NewReaderRepository(db)
	hallRepo := mysql.NewHallRepository(db)
	caseRepo := mysql.NewCaseRepository(db)
	shelfRepo := mysql.NewShelfRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	journalRepo := mysql.NewJournalRepository(db)
	reportingQueries := mysql.NewReportingQueries(db)

	// 应用层
	createBookUseCase := appbook.NewCreateBookUseCase(bookRepo, authorRepo, pubTypeRepo, shelfRepo, txManager)
	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo)
	manageBookUseCase := appbook.NewManageBookUseCase(bookRepo)
	hallUseCase := appshelving.NewHallUseCase(hallRepo, caseRepo, shelfRepo, librarianRepo, txManager)
	caseUseCase := appshelving.NewCaseUseCase(hallRepo, caseRepo, shelfRepo)
	shelfUseCase := appshelving.NewShelfUseCase(caseRepo, shelfRepo)
	checkOutUseCase := appcirculation.NewCheckOutBookUseCase(bookRepo, journalRepo, readerRepo, librarianRepo, txManager)
	returnUseCase := appcirculation.NewReturnBookUseCase(bookRepo, shelfRepo, journalRepo, readerRepo, librarianRepo, txManager)
	reportsUseCase := appreporting.NewReportsUseCase(reportingQueries)

	// 接口层
	catalogHandler := handler.NewCatalogHandler(authorRepo, pubTypeRepo, librarianRepo, readerRepo)
	bookHandler := handler.NewBookHandler(createBookUseCase, listBooksUseCase, manageBookUseCase)
	shelvingHandler := handler.NewShelvingHandler(hallUseCase, caseUseCase, shelfUseCase)
	circulationHandler := handler.NewCirculationHandler(checkOutUseCase, returnUseCase, journalRepo)
	reportingHandler := handler.NewReportingHandler(reportsUseCase)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 7. 注册路由
	registerRoutes(r, cfg, catalogHandler, bookHandler, shelvingHandler, circulationHandler, reportingHandler)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   借出图书: POST http://localhost%s/api/v1/circulation/check-out\n", addr)
	fmt.Printf("   归还图书: POST http://localhost%s/api/v1/circulation/return\n", addr)
	fmt.Printf("   借出排行: GET  http://localhost%s/api/v1/reports/top-ten-books\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	catalogHandler *handler.CatalogHandler,
	bookHandler *handler.BookHandler,
	shelvingHandler *handler.ShelvingHandler,
	circulationHandler *handler.CirculationHandler,
	reportingHandler *handler.ReportingHandler,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 目录模块:作者/出版类型/管理员/读者
		v1.POST("/authors", catalogHandler.CreateAuthor)
		v1.GET("/authors", catalogHandler.ListAuthors)
		v1.DELETE("/authors/:id", catalogHandler.DeleteAuthor)

		v1.POST("/publication-types", catalogHandler.CreatePublicationType)
		v1.GET("/publication-types", catalogHandler.ListPublicationTypes)
		v1.DELETE("/publication-types/:id", catalogHandler.DeletePublicationType)

		v1.POST("/librarians", catalogHandler.CreateLibrarian)
		v1.GET("/librarians", catalogHandler.ListLibrarians)
		v1.DELETE("/librarians/:id", catalogHandler.DeleteLibrarian)

		v1.POST("/readers", catalogHandler.CreateReader)
		v1.GET("/readers", catalogHandler.ListReaders)
		v1.DELETE("/readers/:id", catalogHandler.DeleteReader)

		// 书库层级模块:大厅/书柜/书架
		v1.POST("/halls", shelvingHandler.CreateHall)
		v1.GET("/halls", shelvingHandler.ListHalls)
		v1.GET("/halls/:id/cases", shelvingHandler.ListHallCases)
		v1.DELETE("/halls/:id", shelvingHandler.DeleteHall)

		v1.POST("/cases", shelvingHandler.CreateCase)
		v1.GET("/cases", shelvingHandler.ListCases)
		v1.GET("/cases/:id/shelves", shelvingHandler.ListCaseShelves)
		v1.DELETE("/cases/:id", shelvingHandler.DeleteCase)

		v1.POST("/shelves", shelvingHandler.CreateShelf)
		v1.GET("/shelves", shelvingHandler.ListShelves)
		v1.GET("/shelves/:id", shelvingHandler.GetShelf)
		v1.DELETE("/shelves/:id", shelvingHandler.DeleteShelf)

		// 图书模块
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		// 流转模块:借出/归还/日志
		circulation := v1.Group("/circulation")
		{
			circulation.POST("/check-out", circulationHandler.CheckOut)
			circulation.POST("/return", circulationHandler.Return)
			circulation.GET("/journal", circulationHandler.ListJournal)
		}

		// 报表模块
		reports := v1.Group("/reports")
		{
			reports.GET("/books-by-author", reportingHandler.CountBooksByAuthor)
			reports.GET("/top-ten-books", reportingHandler.TopTenBooks)
			reports.GET("/books-on-hand", reportingHandler.BooksOnHandByReader)
			reports.GET("/hall-summaries", reportingHandler.HallSummaries)
			reports.GET("/never-taken-books", reportingHandler.NeverTakenBooks)
			reports.GET("/shelf-history", reportingHandler.ShelfHistory)
		}
	}
}
