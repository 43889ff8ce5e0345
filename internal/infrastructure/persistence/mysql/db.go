package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookhouse/internal/infrastructure/config"
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
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意:AutoMigrate只会创建表、添加字段,不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthorModel{},
		&PublicationTypeModel{},
		&LibrarianModel{},
		&ReaderModel{},
		&BookHallModel{},
		&BookCaseModel{},
		&BookShelfModel{},
		&BookModel{},
		&MoveBookJournalModel{},
	)
}

// =========================================
// GORM数据模型
// =========================================
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. internal/domain下是领域实体,不依赖GORM
// 3. Repository负责两者之间的转换

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID  uint   `gorm:"primaryKey"`
	FIO string `gorm:"index;size:200;not null;comment:作者姓名"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// PublicationTypeModel GORM出版类型模型
type PublicationTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"index;size:100;not null;comment:类型名称"`
}

// TableName 指定表名
func (PublicationTypeModel) TableName() string {
	return "publication_types"
}

// LibrarianModel GORM图书管理员模型
// FIO有唯一索引,防止重名录入
type LibrarianModel struct {
	ID  uint   `gorm:"primaryKey"`
	FIO string `gorm:"uniqueIndex;size:200;not null;comment:管理员姓名"`
}

// TableName 指定表名
func (LibrarianModel) TableName() string {
	return "librarians"
}

// ReaderModel GORM读者模型
type ReaderModel struct {
	ID  uint   `gorm:"primaryKey"`
	FIO string `gorm:"index;size:200;not null;comment:读者姓名"`
}

// TableName 指定表名
func (ReaderModel) TableName() string {
	return "readers"
}

// BookHallModel GORM书库大厅模型
type BookHallModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:200;not null;comment:大厅名称"`
	LibrarianID uint   `gorm:"index;not null;comment:负责管理员ID"`
}

// TableName 指定表名
func (BookHallModel) TableName() string {
	return "book_halls"
}

// BookCaseModel GORM书柜模型
// (Number, HallID)复合唯一索引:编号在大厅范围内唯一
type BookCaseModel struct {
	ID     uint `gorm:"primaryKey"`
	Number uint `gorm:"uniqueIndex:idx_case_number_hall;not null;comment:书柜编号"`
	HallID uint `gorm:"uniqueIndex:idx_case_number_hall;index;not null;comment:所属大厅ID"`
}

// TableName 指定表名
func (BookCaseModel) TableName() string {
	return "book_cases"
}

// BookShelfModel GORM书架模型
// (Number, CaseID)复合唯一索引:编号在书柜范围内唯一
type BookShelfModel struct {
	ID     uint `gorm:"primaryKey"`
	Number uint `gorm:"uniqueIndex:idx_shelf_number_case;not null;comment:书架编号"`
	CaseID uint `gorm:"uniqueIndex:idx_shelf_number_case;index;not null;comment:所属书柜ID"`
}

// TableName 指定表名
func (BookShelfModel) TableName() string {
	return "book_shelves"
}

// BookModel GORM图书模型
// 设计说明:
// 1. Number(登记号)有唯一索引,防止重复
// 2. ShelfID可空:为空表示图书外借中,非空表示在架
// 3. 作者多对多,join表book_authors(book_id, author_id)
type BookModel struct {
	ID                uint          `gorm:"primaryKey"`
	Name              string        `gorm:"index;size:200;not null;comment:书名"`
	PubDate           *time.Time    `gorm:"comment:出版日期"`
	Number            uint          `gorm:"uniqueIndex;not null;comment:登记号"`
	PageCount         int           `gorm:"not null;comment:页数"`
	Description       string        `gorm:"type:text;comment:描述"`
	PublicationTypeID *uint         `gorm:"index;comment:出版类型ID"`
	ShelfID           *uint         `gorm:"index;comment:当前书架ID(空=外借中)"`
	Authors           []AuthorModel `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
	CreatedAt         time.Time     `gorm:"comment:创建时间"`
	UpdatedAt         time.Time     `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// MoveBookJournalModel GORM流转日志模型
// 设计说明:
// 1. 仅追加:除Returned标志外任何字段创建后不再变更,永不删除
// 2. 列名沿用from_book_shelf_id/to_book_shelf_id,与历史数据保持一致
type MoveBookJournalModel struct {
	ID                uint       `gorm:"primaryKey"`
	BookID            uint       `gorm:"index;not null;comment:图书ID"`
	FromShelfID       *uint      `gorm:"column:from_book_shelf_id;comment:源书架ID"`
	ToShelfID         *uint      `gorm:"column:to_book_shelf_id;index;comment:目标书架ID(空=借出)"`
	DateTimeMove      time.Time  `gorm:"index;not null;comment:流转时间"`
	LibrarianID       uint       `gorm:"index;not null;comment:经办管理员ID"`
	ReaderID          *uint      `gorm:"index;comment:读者ID"`
	OutsideTheLibrary bool       `gorm:"not null;default:false;comment:是否外借出馆"`
	Returned          bool       `gorm:"index;not null;default:false;comment:是否已归还"`
}

// TableName 指定表名
func (MoveBookJournalModel) TableName() string {
	return "move_book_journals"
}
