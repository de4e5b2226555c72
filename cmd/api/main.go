package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/application/catalog"
	"github.com/xiebiao/library/internal/application/circulation"
	appmember "github.com/xiebiao/library/internal/application/member"
	"github.com/xiebiao/library/internal/application/report"
	appstaff "github.com/xiebiao/library/internal/application/staff"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/event"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供Wire版本,运行wire gen可生成wire_gen.go）
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
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化可观测性组件
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("library-api", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			log.Printf("[WARN] 初始化链路追踪失败(降级运行): %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列(可选,未部署RabbitMQ时关闭)
	var mqPublisher *mq.Publisher
	if cfg.MQ.Enabled {
		mqPublisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Printf("[WARN] 初始化RabbitMQ失败(事件发布降级): %v", err)
			mqPublisher = nil
		} else {
			defer mqPublisher.Close()
		}
	}
	eventPublisher := event.NewPublisher(mqPublisher, cfg.MQ.Exchange)

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	loanRepo := mysql.NewLoanRepository(db)
	memberRepo := mysql.NewMemberRepository(db)
	employeeRepo := mysql.NewEmployeeRepository(db)
	branchRepo := mysql.NewBranchRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	bookCache := redis.NewBookCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	bookService := book.NewService(bookRepo)
	staffService := staff.NewService(employeeRepo, branchRepo)
	feePolicy := feePolicyFromConfig(cfg)

	// 应用层
	addBookUseCase := catalog.NewAddBookUseCase(bookService)
	getBookUseCase := catalog.NewGetBookUseCase(bookService, bookCache)
	listBooksUseCase := catalog.NewListBooksUseCase(bookService)
	manageBookUseCase := catalog.NewManageBookUseCase(bookService, loanRepo, bookCache)

	issueBookUseCase := circulation.NewIssueBookUseCase(
		loanRepo, bookRepo, memberRepo, employeeRepo, txManager, eventPublisher, bookCache)
	returnBookUseCase := circulation.NewReturnBookUseCase(
		loanRepo, bookRepo, txManager, eventPublisher, bookCache)
	assessLateFeesUseCase := circulation.NewAssessLateFeesUseCase(loanRepo, feePolicy, eventPublisher)

	registerMemberUseCase := appmember.NewRegisterMemberUseCase(memberRepo)
	updateAddressUseCase := appmember.NewUpdateMemberAddressUseCase(memberRepo)
	loanHistoryUseCase := appmember.NewMemberLoanHistoryUseCase(memberRepo, loanRepo)

	registerEmployeeUseCase := appstaff.NewRegisterEmployeeUseCase(staffService)
	loginUseCase := appstaff.NewLoginUseCase(staffService, jwtManager, sessionStore)
	logoutUseCase := appstaff.NewLogoutUseCase(sessionStore)
	manageBranchUseCase := appstaff.NewManageBranchUseCase(branchRepo, employeeRepo)

	overdueLoansUseCase := report.NewOverdueLoansUseCase(loanRepo, feePolicy)

	// 接口层
	bookHandler := handler.NewBookHandler(addBookUseCase, getBookUseCase, listBooksUseCase, manageBookUseCase)
	loanHandler := handler.NewLoanHandler(issueBookUseCase, returnBookUseCase, assessLateFeesUseCase)
	memberHandler := handler.NewMemberHandler(registerMemberUseCase, updateAddressUseCase, loanHistoryUseCase)
	staffHandler := handler.NewStaffHandler(registerEmployeeUseCase, loginUseCase, logoutUseCase, manageBranchUseCase)
	reportHandler := handler.NewReportHandler(overdueLoansUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, bookHandler, loanHandler, memberHandler, staffHandler, reportHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   馆员登录: POST http://localhost%s/api/v1/staff/login\n", addr)
	fmt.Printf("   借出图书: POST http://localhost%s/api/v1/loans (需要登录)\n", addr)
	fmt.Printf("   归还图书: POST http://localhost%s/api/v1/returns (需要登录)\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// feePolicyFromConfig 从配置构建计费策略,缺省回落到参考策略(30天/50分)
func feePolicyFromConfig(cfg *config.Config) loan.FeePolicy {
	policy := loan.DefaultFeePolicy
	if cfg.Circulation.GraceDays > 0 {
		policy.GraceDays = cfg.Circulation.GraceDays
	}
	if cfg.Circulation.DailyRateFen > 0 {
		policy.DailyRateFen = cfg.Circulation.DailyRateFen
	}
	return policy
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	memberHandler *handler.MemberHandler,
	staffHandler *handler.StaffHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 馆员模块(注册、登录是公开接口)
		staffGroup := v1.Group("/staff")
		{
			staffGroup.POST("/register", staffHandler.RegisterEmployee)
			staffGroup.POST("/login", staffHandler.Login)
			staffGroup.POST("/logout", authMiddleware.RequireAuth(), staffHandler.Logout)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			// 查询是公开接口
			books.GET("", bookHandler.ListBooks)
			books.GET("/:isbn", bookHandler.GetBook)

			// 维护操作需要登录
			books.POST("", authMiddleware.RequireAuth(), bookHandler.AddBook)
			books.PUT("/:id/info", authMiddleware.RequireAuth(), bookHandler.UpdateBookInfo)
			books.PUT("/:id/price", authMiddleware.RequireAuth(), bookHandler.UpdateBookPrice)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		// 流通模块(借还台操作,全部需要登录)
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/loans", loanHandler.IssueBook)
			authorized.POST("/returns", loanHandler.ReturnBook)
			authorized.POST("/loans/assess-late-fees", loanHandler.AssessLateFees)

			// 读者模块
			authorized.POST("/members", memberHandler.RegisterMember)
			authorized.PUT("/members/:member_no/address", memberHandler.UpdateMemberAddress)
			authorized.GET("/members/:member_no/loans", memberHandler.GetMemberLoans)

			// 分馆模块
			authorized.POST("/branches", staffHandler.CreateBranch)
			authorized.GET("/branches", staffHandler.ListBranches)
			authorized.PUT("/branches/:branch_no/manager", staffHandler.AssignManager)

			// 报表模块
			authorized.GET("/reports/overdue-loans", reportHandler.OverdueLoans)
		}
	}
}
