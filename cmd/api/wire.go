//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
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
	"github.com/xiebiao/library/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,     // 图书仓储
	mysql.NewLoanRepository,     // 借阅仓储
	mysql.NewMemberRepository,   // 读者仓储
	mysql.NewEmployeeRepository, // 馆员仓储
	mysql.NewBranchRepository,   // 分馆仓储
	mysql.NewTxManager,          // 事务管理器
	wire.Bind(new(circulation.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,  // 图书领域服务
	staff.NewService, // 馆员领域服务
	provideFeePolicy, // 滞纳金计费策略（从config提取）
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	catalog.NewAddBookUseCase,               // 新书入库用例
	catalog.NewGetBookUseCase,               // 图书详情用例
	catalog.NewListBooksUseCase,             // 图书列表用例
	catalog.NewManageBookUseCase,            // 图书维护用例
	circulation.NewIssueBookUseCase,         // 借出图书用例
	circulation.NewReturnBookUseCase,        // 归还图书用例
	circulation.NewAssessLateFeesUseCase,    // 滞纳金批处理用例
	appmember.NewRegisterMemberUseCase,      // 读者办证用例
	appmember.NewUpdateMemberAddressUseCase, // 地址变更用例
	appmember.NewMemberLoanHistoryUseCase,   // 借阅历史用例
	appstaff.NewRegisterEmployeeUseCase,     // 馆员入职用例
	appstaff.NewLoginUseCase,                // 馆员登录用例
	appstaff.NewLogoutUseCase,               // 馆员登出用例
	appstaff.NewManageBranchUseCase,         // 分馆管理用例
	report.NewOverdueLoansUseCase,           // 逾期报表用例
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	provideBookCache,             // 图书详情缓存
	provideEventPublisher,        // 领域事件发布器（熔断保护）
	middleware.NewAuthMiddleware, // 认证中间件
	wire.Bind(new(circulation.BookCache), new(*redis.BookCache)),
	wire.Bind(new(circulation.EventPublisher), new(*event.Publisher)),
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,   // 图书处理器
	handler.NewLoanHandler,   // 流通处理器
	handler.NewMemberHandler, // 读者处理器
	handler.NewStaffHandler,  // 馆员处理器
	handler.NewReportHandler, // 报表处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 有些依赖的构造函数参数需要从Config中提取，Wire无法自动推导

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideBookCache 从Redis客户端创建图书详情缓存
func provideBookCache(client *goredis.Client) *redis.BookCache {
	return redis.NewBookCache(client)
}

// provideFeePolicy 从配置构建计费策略，缺省回落到参考策略
func provideFeePolicy(cfg *config.Config) loan.FeePolicy {
	policy := loan.DefaultFeePolicy
	if cfg.Circulation.GraceDays > 0 {
		policy.GraceDays = cfg.Circulation.GraceDays
	}
	if cfg.Circulation.DailyRateFen > 0 {
		policy.DailyRateFen = cfg.Circulation.DailyRateFen
	}
	return policy
}

// provideEventPublisher 创建领域事件发布器
// MQ不可用时降级为空发布(事件静默丢弃,主流程不受影响)
func provideEventPublisher(cfg *config.Config) *event.Publisher {
	var mqPublisher *mq.Publisher
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Printf("[WARN] 初始化RabbitMQ失败(事件发布降级): %v", err)
		} else {
			mqPublisher = p
		}
	}
	return event.NewPublisher(mqPublisher, cfg.MQ.Exchange)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册直接在函数内完成，避免与main.go中的registerRoutes函数冲突
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	loanHandler *handler.LoanHandler,
	memberHandler *handler.MemberHandler,
	staffHandler *handler.StaffHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 馆员模块
		staffGroup := v1.Group("/staff")
		{
			staffGroup.POST("/register", staffHandler.RegisterEmployee)
			staffGroup.POST("/login", staffHandler.Login)
			staffGroup.POST("/logout", authMiddleware.RequireAuth(), staffHandler.Logout)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:isbn", bookHandler.GetBook)
			books.POST("", authMiddleware.RequireAuth(), bookHandler.AddBook)
			books.PUT("/:id/info", authMiddleware.RequireAuth(), bookHandler.UpdateBookInfo)
			books.PUT("/:id/price", authMiddleware.RequireAuth(), bookHandler.UpdateBookPrice)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		// 流通、读者、分馆、报表(全部需要登录)
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/loans", loanHandler.IssueBook)
			authorized.POST("/returns", loanHandler.ReturnBook)
			authorized.POST("/loans/assess-late-fees", loanHandler.AssessLateFees)

			authorized.POST("/members", memberHandler.RegisterMember)
			authorized.PUT("/members/:member_no/address", memberHandler.UpdateMemberAddress)
			authorized.GET("/members/:member_no/loans", memberHandler.GetMemberLoans)

			authorized.POST("/branches", staffHandler.CreateBranch)
			authorized.GET("/branches", staffHandler.ListBranches)
			authorized.PUT("/branches/:branch_no/manager", staffHandler.AssignManager)

			authorized.GET("/reports/overdue-loans", reportHandler.OverdueLoans)
		}
	}

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 依赖链示例：
// *gin.Engine 需要 → *handler.LoanHandler
// *handler.LoanHandler 需要 → *circulation.IssueBookUseCase
// *circulation.IssueBookUseCase 需要 → loan.Repository + circulation.TxManager
// loan.Repository 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 返回值是占位符，实际运行时由wire_gen.go替代
	return nil, nil
}
