package catalog

import (
	"context"
)

// ListParams 目录列表查询参数
// 设计说明:只枚举实际可过滤的字段(自然键),不做通用查询构造器
type ListParams struct {
	FIO      string // 按姓名过滤(作者/管理员/读者)
	Name     string // 按名称过滤(出版类型)
	OrderBy  string // 排序字段(fio_asc, fio_desc, name_asc, name_desc)
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// AuthorRepository 作者仓储接口
// 由domain层定义接口,infrastructure层实现(依赖倒置)
type AuthorRepository interface {
	Create(ctx context.Context, author *Author) error

	FindByID(ctx context.Context, id uint) (*Author, error)

	// FindOrCreate 按姓名查找,不存在则创建
	// 仅用于录入边界(图书创建时的嵌套作者载荷)
	FindOrCreate(ctx context.Context, fio string) (*Author, error)

	List(ctx context.Context, params ListParams) ([]*Author, int64, error)

	// Delete 删除作者
	// 仍被图书引用时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}

// PublicationTypeRepository 出版类型仓储接口
type PublicationTypeRepository interface {
	Create(ctx context.Context, pt *PublicationType) error

	FindByID(ctx context.Context, id uint) (*PublicationType, error)

	FindOrCreate(ctx context.Context, name string) (*PublicationType, error)

	List(ctx context.Context, params ListParams) ([]*PublicationType, int64, error)

	// Delete 删除出版类型
	// 依赖图书的类型引用置空(set-null),与保护删除不同
	Delete(ctx context.Context, id uint) error
}

// LibrarianRepository 图书管理员仓储接口
type LibrarianRepository interface {
	// Create 创建管理员
	// FIO重复返回UniquenessViolation错误
	Create(ctx context.Context, librarian *Librarian) error

	FindByID(ctx context.Context, id uint) (*Librarian, error)

	FindOrCreate(ctx context.Context, fio string) (*Librarian, error)

	List(ctx context.Context, params ListParams) ([]*Librarian, int64, error)

	// Delete 删除管理员
	// 被大厅或流转日志引用时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}

// ReaderRepository 读者仓储接口
type ReaderRepository interface {
	Create(ctx context.Context, reader *Reader) error

	FindByID(ctx context.Context, id uint) (*Reader, error)

	List(ctx context.Context, params ListParams) ([]*Reader, int64, error)

	// Delete 删除读者
	// 被流转日志引用时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}
