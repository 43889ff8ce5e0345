package shelving

import (
	"context"

	"github.com/xiebiao/bookhouse/internal/domain/shelving"
)

// CaseUseCase 书柜用例
type CaseUseCase struct {
	hallRepo  shelving.HallRepository
	caseRepo  shelving.CaseRepository
	shelfRepo shelving.ShelfRepository
}

// NewCaseUseCase 创建书柜用例
func NewCaseUseCase(
	hallRepo shelving.HallRepository,
	caseRepo shelving.CaseRepository,
	shelfRepo shelving.ShelfRepository,
) *CaseUseCase {
	return &CaseUseCase{hallRepo: hallRepo, caseRepo: caseRepo, shelfRepo: shelfRepo}
}

// CreateCaseRequest 创建书柜请求DTO
type CreateCaseRequest struct {
	Number uint // 书柜编号(大厅范围内唯一)
	HallID uint // 所属大厅
}

// CaseView 书柜视图
// ShelfNumbers是下属书架编号的逗号拼接摘要
type CaseView struct {
	ID           uint   `json:"id"`
	Number       uint   `json:"number"`
	HallID       uint   `json:"hall_id"`
	ShelfNumbers string `json:"shelf_numbers"`
}

// toCaseView 构造书柜视图,附带下属书架编号摘要
func toCaseView(ctx context.Context, shelfRepo shelving.ShelfRepository, c *shelving.BookCase) (CaseView, error) {
	shelves, err := shelfRepo.ListByCase(ctx, c.ID)
	if err != nil {
		return CaseView{}, err
	}
	numbers := make([]uint, len(shelves))
	for i, s := range shelves {
		numbers[i] = s.Number
	}
	return CaseView{
		ID:           c.ID,
		Number:       c.Number,
		HallID:       c.HallID,
		ShelfNumbers: shelving.JoinNumbers(numbers),
	}, nil
}

// Create 创建书柜
// 编号在大厅范围内重复时返回UniquenessViolation错误
func (uc *CaseUseCase) Create(ctx context.Context, req CreateCaseRequest) (*CaseView, error) {
	if _, err := uc.hallRepo.FindByID(ctx, req.HallID); err != nil {
		return nil, err
	}
	bookCase := &shelving.BookCase{Number: req.Number, HallID: req.HallID}
	if err := uc.caseRepo.Create(ctx, bookCase); err != nil {
		return nil, err
	}
	// 新建书柜没有下属书架,摘要为空串
	return &CaseView{ID: bookCase.ID, Number: bookCase.Number, HallID: bookCase.HallID}, nil
}

// Get 按ID查询书柜
func (uc *CaseUseCase) Get(ctx context.Context, id uint) (*CaseView, error) {
	bookCase, err := uc.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := toCaseView(ctx, uc.shelfRepo, bookCase)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// List 分页查询书柜列表
func (uc *CaseUseCase) List(ctx context.Context, params shelving.ListParams) ([]CaseView, int64, error) {
	cases, total, err := uc.caseRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	views := make([]CaseView, len(cases))
	for i, c := range cases {
		views[i], err = toCaseView(ctx, uc.shelfRepo, c)
		if err != nil {
			return nil, 0, err
		}
	}
	return views, total, nil
}

// ListShelves 列出书柜下属书架,按编号升序
func (uc *CaseUseCase) ListShelves(ctx context.Context, caseID uint) ([]ShelfView, error) {
	if _, err := uc.caseRepo.FindByID(ctx, caseID); err != nil {
		return nil, err
	}
	shelves, err := uc.shelfRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	views := make([]ShelfView, len(shelves))
	for i, s := range shelves {
		count, err := uc.shelfRepo.CountBooks(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		views[i] = ShelfView{ID: s.ID, Number: s.Number, CaseID: s.CaseID, Books: count}
	}
	return views, nil
}

// Delete 删除书柜,仍有下属书架时拒绝
func (uc *CaseUseCase) Delete(ctx context.Context, id uint) error {
	return uc.caseRepo.Delete(ctx, id)
}
