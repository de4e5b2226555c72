package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			// 使用UTC+8时间（配合MySQL的TZ=Asia/Shanghai）
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&BookModel{},
		&MemberModel{},
		&BranchModel{},
		&EmployeeModel{},
		&LoanModel{},
		&ReturnModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 租价使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,同一ISBN只有一条在册记录
// 3. Status是流通状态(1在架 2借出),借出/归还事务中通过行锁保护
type BookModel struct {
	ID        uint           `gorm:"primaryKey"`
	ISBN      string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title     string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Category  string         `gorm:"index;size:50;comment:分类"`
	Author    string         `gorm:"index:idx_search;size:100;not null;comment:作者"` // 搜索索引
	Publisher string         `gorm:"size:100;comment:出版社"`
	Price     int64          `gorm:"not null;comment:租价(分)"`
	Status    int            `gorm:"index;type:tinyint;default:1;comment:流通状态(1在架2借出)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// MemberModel GORM读者模型
type MemberModel struct {
	ID        uint      `gorm:"primaryKey"`
	MemberNo  string    `gorm:"uniqueIndex;size:32;not null;comment:借书证号"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	Address   string    `gorm:"size:200;comment:地址"`
	RegDate   time.Time `gorm:"comment:办证日期"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// BranchModel GORM分馆模型
// 设计说明:
// 1. ManagerNo是可空的软自引用(分馆可暂无馆长),不建数据库外键
type BranchModel struct {
	ID        uint      `gorm:"primaryKey"`
	BranchNo  string    `gorm:"uniqueIndex;size:32;not null;comment:分馆编号"`
	ManagerNo *string   `gorm:"size:32;comment:馆长工号(可空)"`
	Address   string    `gorm:"size:200;comment:地址"`
	Contact   string    `gorm:"size:50;comment:联系方式"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BranchModel) TableName() string {
	return "branches"
}

// EmployeeModel GORM馆员模型
type EmployeeModel struct {
	ID        uint      `gorm:"primaryKey"`
	EmpNo     string    `gorm:"uniqueIndex;size:32;not null;comment:工号"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	Position  string    `gorm:"size:50;comment:职位"`
	Salary    int64     `gorm:"comment:薪资(分)"`
	BranchNo  string    `gorm:"index;size:32;not null;comment:所属分馆编号"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (EmployeeModel) TableName() string {
	return "employees"
}

// LoanModel GORM借阅记录模型
// 教学要点:
// 1. IssueNo有唯一索引(业务主键)
// 2. 是否已归还不靠状态列,靠return_records是否存在对应行
// 3. LateFee由滞纳金批处理回写,归还后冻结
type LoanModel struct {
	ID        uint      `gorm:"primaryKey"`
	IssueNo   string    `gorm:"uniqueIndex;size:32;not null;comment:借阅单号"`
	MemberNo  string    `gorm:"index;size:32;not null;comment:借书证号"`
	ISBN      string    `gorm:"index;size:20;not null;comment:ISBN号"`
	EmpNo     string    `gorm:"size:32;not null;comment:经办馆员工号"`
	IssueDate time.Time `gorm:"index;comment:借出日期"`
	LateFee   int64     `gorm:"default:0;comment:滞纳金(分)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}

// ReturnModel GORM归还记录模型
// 教学要点:
// 1. LoanID有唯一索引:一条借阅至多一条归还,数据库层兜底防重复归还
// 2. ISBN与BookTitle是归还时的快照,图书信息后续变更不影响归还档案
type ReturnModel struct {
	ID         uint      `gorm:"primaryKey"`
	ReturnNo   string    `gorm:"uniqueIndex;size:32;not null;comment:归还单号"`
	LoanID     uint      `gorm:"uniqueIndex;not null;comment:借阅记录ID"`
	ISBN       string    `gorm:"size:20;not null;comment:ISBN快照"`
	BookTitle  string    `gorm:"size:200;comment:书名快照"`
	ReturnDate time.Time `gorm:"comment:归还日期"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (ReturnModel) TableName() string {
	return "return_records"
}
