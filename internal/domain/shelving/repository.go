package shelving

import (
	"context"
)

// ListParams 层级列表查询参数
type ListParams struct {
	Name     string // 按大厅名称过滤
	Number   uint   // 按编号过滤(书柜/书架,0表示不过滤)
	OrderBy  string // 排序字段(name_asc, name_desc, number_asc, number_desc)
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// HallRepository 大厅仓储接口
type HallRepository interface {
	Create(ctx context.Context, hall *BookHall) error

	FindByID(ctx context.Context, id uint) (*BookHall, error)

	List(ctx context.Context, params ListParams) ([]*BookHall, int64, error)

	// Delete 删除大厅
	// 仍有下属书柜时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}

// CaseRepository 书柜仓储接口
type CaseRepository interface {
	// Create 创建书柜
	// (number, hall)重复返回UniquenessViolation错误
	Create(ctx context.Context, bookCase *BookCase) error

	FindByID(ctx context.Context, id uint) (*BookCase, error)

	// ListByHall 列出大厅下属书柜,按编号升序
	ListByHall(ctx context.Context, hallID uint) ([]*BookCase, error)

	List(ctx context.Context, params ListParams) ([]*BookCase, int64, error)

	// Delete 删除书柜
	// 仍有下属书架时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}

// ShelfRepository 书架仓储接口
type ShelfRepository interface {
	// Create 创建书架
	// (number, case)重复返回UniquenessViolation错误
	Create(ctx context.Context, shelf *BookShelf) error

	FindByID(ctx context.Context, id uint) (*BookShelf, error)

	// ListByCase 列出书柜下属书架,按编号升序
	ListByCase(ctx context.Context, caseID uint) ([]*BookShelf, error)

	List(ctx context.Context, params ListParams) ([]*BookShelf, int64, error)

	// CountBooks 统计当前放在书架上的图书数
	CountBooks(ctx context.Context, shelfID uint) (int64, error)

	// FindFirstAvailable 首次适应选架:按书架ID升序扫描,
	// 返回第一个在架图书数 < MaxBooksPerShelf 的书架
	// 全部已满时返回ErrNoShelfAvailable
	// 必须在事务内调用:实现会对候选书架行加锁,
	// 防止两个并发归还选中同一书架导致超容
	FindFirstAvailable(ctx context.Context) (*BookShelf, error)

	// Delete 删除书架
	// 架上仍有图书或被流转日志引用时返回ReferentialIntegrity错误
	Delete(ctx context.Context, id uint) error
}
