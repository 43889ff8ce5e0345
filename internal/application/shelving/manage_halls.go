package shelving

import (
	"context"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
)

// HallUseCase 书库大厅用例
// 设计说明:创建大厅时负责管理员按姓名嵌套录入(get-or-create),
// 与图书入库的作者嵌套录入遵循同一套模式
type HallUseCase struct {
	hallRepo      shelving.HallRepository
	caseRepo      shelving.CaseRepository
	shelfRepo     shelving.ShelfRepository
	librarianRepo catalog.LibrarianRepository
	txManager     *mysql.TxManager
}

// NewHallUseCase 创建大厅用例
func NewHallUseCase(
	hallRepo shelving.HallRepository,
	caseRepo shelving.CaseRepository,
	shelfRepo shelving.ShelfRepository,
	librarianRepo catalog.LibrarianRepository,
	txManager *mysql.TxManager,
) *HallUseCase {
	return &HallUseCase{
		hallRepo:      hallRepo,
		caseRepo:      caseRepo,
		shelfRepo:     shelfRepo,
		librarianRepo: librarianRepo,
		txManager:     txManager,
	}
}

// CreateHallRequest 创建大厅请求DTO
type CreateHallRequest struct {
	Name         string // 大厅名称
	LibrarianFIO string // 负责管理员姓名(get-or-create)
}

// HallView 大厅视图
// CaseNumbers是下属书柜编号的逗号拼接摘要
type HallView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	LibrarianID uint   `json:"librarian_id"`
	CaseNumbers string `json:"case_numbers"`
}

// toHallView 构造大厅视图,附带下属书柜编号摘要
func (uc *HallUseCase) toHallView(ctx context.Context, hall *shelving.BookHall) (HallView, error) {
	cases, err := uc.caseRepo.ListByHall(ctx, hall.ID)
	if err != nil {
		return HallView{}, err
	}
	numbers := make([]uint, len(cases))
	for i, c := range cases {
		numbers[i] = c.Number
	}
	return HallView{
		ID:          hall.ID,
		Name:        hall.Name,
		LibrarianID: hall.LibrarianID,
		CaseNumbers: shelving.JoinNumbers(numbers),
	}, nil
}

// Create 创建大厅
func (uc *HallUseCase) Create(ctx context.Context, req CreateHallRequest) (*HallView, error) {
	var hall *shelving.BookHall
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		librarian, err := uc.librarianRepo.FindOrCreate(txCtx, req.LibrarianFIO)
		if err != nil {
			return err
		}
		hall = &shelving.BookHall{Name: req.Name, LibrarianID: librarian.ID}
		return uc.hallRepo.Create(txCtx, hall)
	})
	if err != nil {
		return nil, err
	}
	// 新建大厅没有下属书柜,摘要为空串
	return &HallView{ID: hall.ID, Name: hall.Name, LibrarianID: hall.LibrarianID}, nil
}

// Get 按ID查询大厅
func (uc *HallUseCase) Get(ctx context.Context, id uint) (*HallView, error) {
	hall, err := uc.hallRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := uc.toHallView(ctx, hall)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// List 分页查询大厅列表
func (uc *HallUseCase) List(ctx context.Context, params shelving.ListParams) ([]HallView, int64, error) {
	halls, total, err := uc.hallRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	views := make([]HallView, len(halls))
	for i, h := range halls {
		views[i], err = uc.toHallView(ctx, h)
		if err != nil {
			return nil, 0, err
		}
	}
	return views, total, nil
}

// ListCases 列出大厅下属书柜,按编号升序
func (uc *HallUseCase) ListCases(ctx context.Context, hallID uint) ([]CaseView, error) {
	if _, err := uc.hallRepo.FindByID(ctx, hallID); err != nil {
		return nil, err
	}
	cases, err := uc.caseRepo.ListByHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	views := make([]CaseView, len(cases))
	for i, c := range cases {
		views[i], err = toCaseView(ctx, uc.shelfRepo, c)
		if err != nil {
			return nil, err
		}
	}
	return views, nil
}

// Delete 删除大厅,仍有下属书柜时拒绝
func (uc *HallUseCase) Delete(ctx context.Context, id uint) error {
	return uc.hallRepo.Delete(ctx, id)
}
