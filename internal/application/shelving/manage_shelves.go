package shelving

import (
	"context"

	"github.com/xiebiao/bookhouse/internal/domain/shelving"
)

// ShelfUseCase 书架用例
type ShelfUseCase struct {
	caseRepo  shelving.CaseRepository
	shelfRepo shelving.ShelfRepository
}

// NewShelfUseCase 创建书架用例
func NewShelfUseCase(
	caseRepo shelving.CaseRepository,
	shelfRepo shelving.ShelfRepository,
) *ShelfUseCase {
	return &ShelfUseCase{caseRepo: caseRepo, shelfRepo: shelfRepo}
}

// CreateShelfRequest 创建书架请求DTO
type CreateShelfRequest struct {
	Number uint // 书架编号(书柜范围内唯一)
	CaseID uint // 所属书柜
}

// ShelfView 书架视图(附带当前在架图书数)
type ShelfView struct {
	ID     uint  `json:"id"`
	Number uint  `json:"number"`
	CaseID uint  `json:"case_id"`
	Books  int64 `json:"books"`
}

// Create 创建书架
// 编号在书柜范围内重复时返回UniquenessViolation错误
func (uc *ShelfUseCase) Create(ctx context.Context, req CreateShelfRequest) (*ShelfView, error) {
	if _, err := uc.caseRepo.FindByID(ctx, req.CaseID); err != nil {
		return nil, err
	}
	shelf := &shelving.BookShelf{Number: req.Number, CaseID: req.CaseID}
	if err := uc.shelfRepo.Create(ctx, shelf); err != nil {
		return nil, err
	}
	return &ShelfView{ID: shelf.ID, Number: shelf.Number, CaseID: shelf.CaseID}, nil
}

// Get 按ID查询书架,附带在架图书数
func (uc *ShelfUseCase) Get(ctx context.Context, id uint) (*ShelfView, error) {
	shelf, err := uc.shelfRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := uc.shelfRepo.CountBooks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ShelfView{ID: shelf.ID, Number: shelf.Number, CaseID: shelf.CaseID, Books: count}, nil
}

// List 分页查询书架列表
func (uc *ShelfUseCase) List(ctx context.Context, params shelving.ListParams) ([]ShelfView, int64, error) {
	shelves, total, err := uc.shelfRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	views := make([]ShelfView, len(shelves))
	for i, s := range shelves {
		count, err := uc.shelfRepo.CountBooks(ctx, s.ID)
		if err != nil {
			return nil, 0, err
		}
		views[i] = ShelfView{ID: s.ID, Number: s.Number, CaseID: s.CaseID, Books: count}
	}
	return views, total, nil
}

// Delete 删除书架,架上仍有图书或被流转日志引用时拒绝
func (uc *ShelfUseCase) Delete(ctx context.Context, id uint) error {
	return uc.shelfRepo.Delete(ctx, id)
}
