package book

import (
	"context"
)

// ListParams 图书列表查询参数
// 过滤/排序字段只枚举实际暴露的(name, pub_date, description)
type ListParams struct {
	Name        string // 按书名过滤(模糊)
	PubDate     string // 按出版日期过滤(YYYY-MM-DD)
	Description string // 按描述过滤(模糊)
	OrderBy     string // 排序字段(name_asc, name_desc, pub_date_asc, pub_date_desc)
	Page        int    // 页码(从1开始)
	PageSize    int    // 每页数量
}

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现,便于Mock测试
type Repository interface {
	// Create 创建图书
	// 登记号重复返回UniquenessViolation错误
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(含作者集合)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByNumber 根据登记号查找图书
	FindByNumber(ctx context.Context, number uint) (*Book, error)

	// Update 更新图书基本信息(不含作者集合与书架引用)
	Update(ctx context.Context, book *Book) error

	// UpdateShelf 更新图书的书架引用(流转引擎专用)
	// shelfID为nil表示下架外借
	// 必须在事务内与日志追加一起提交
	UpdateShelf(ctx context.Context, bookID uint, shelfID *uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(用于借还事务)
	// 使用SELECT FOR UPDATE锁定行,防止两个并发借出同时成功
	LockByID(ctx context.Context, id uint) (*Book, error)

	// CountByShelf 统计指定书架上的图书数(容量校验用)
	CountByShelf(ctx context.Context, shelfID uint) (int64, error)

	// Delete 删除图书
	// 被流转日志引用时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}
