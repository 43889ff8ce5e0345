package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
)

// CreateBookUseCase 图书入库用例
// 设计说明:
// 1. 作者与出版类型按自然键嵌套录入:存在则复用,不存在则创建
// 2. 入库时可直接指定书架,书架容量校验与借还路径使用同一条不变式
type CreateBookUseCase struct {
	bookRepo    book.Repository
	authorRepo  catalog.AuthorRepository
	pubTypeRepo catalog.PublicationTypeRepository
	shelfRepo   shelving.ShelfRepository
	txManager   *mysql.TxManager
}

// NewCreateBookUseCase 创建图书入库用例
func NewCreateBookUseCase(
	bookRepo book.Repository,
	authorRepo catalog.AuthorRepository,
	pubTypeRepo catalog.PublicationTypeRepository,
	shelfRepo shelving.ShelfRepository,
	txManager *mysql.TxManager,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookRepo:    bookRepo,
		authorRepo:  authorRepo,
		pubTypeRepo: pubTypeRepo,
		shelfRepo:   shelfRepo,
		txManager:   txManager,
	}
}

// CreateBookRequest 入库请求DTO
type CreateBookRequest struct {
	Name            string     // 书名
	PubDate         *time.Time // 出版日期(可空)
	Number          uint       // 登记号(全馆唯一)
	PageCount       int        // 页数
	Description     string     // 描述
	PublicationType string     // 出版类型名称(可空,按名称get-or-create)
	Authors         []string   // 作者姓名列表(按姓名get-or-create)
	ShelfID         *uint      // 初始书架(可空,空=入库即外借状态)
}

// CreateBookResponse 入库响应DTO
type CreateBookResponse struct {
	BookID  uint   `json:"book_id"`
	Name    string `json:"name"`
	Number  uint   `json:"number"`
	ShelfID *uint  `json:"shelf_id"`
}

// Execute 执行入库用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	// 1. 参数校验
	if req.PageCount <= 0 {
		return nil, book.ErrInvalidPageCount
	}

	var created *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 嵌套录入:出版类型get-or-create
		var pubTypeID *uint
		if req.PublicationType != "" {
			pt, err := uc.pubTypeRepo.FindOrCreate(txCtx, req.PublicationType)
			if err != nil {
				return err
			}
			pubTypeID = &pt.ID
		}

		// 3. 嵌套录入:作者get-or-create
		authors := make([]catalog.Author, 0, len(req.Authors))
		for _, fio := range req.Authors {
			a, err := uc.authorRepo.FindOrCreate(txCtx, fio)
			if err != nil {
				return err
			}
			authors = append(authors, *a)
		}

		// 4. 指定了初始书架时校验书架存在且未满
		// 容量不变式对入库与归还两条路径同样生效
		if req.ShelfID != nil {
			if _, err := uc.shelfRepo.FindByID(txCtx, *req.ShelfID); err != nil {
				return err
			}
			count, err := uc.shelfRepo.CountBooks(txCtx, *req.ShelfID)
			if err != nil {
				return err
			}
			if count >= shelving.MaxBooksPerShelf {
				return shelving.ErrShelfFull
			}
		}

		// 5. 创建图书(登记号重复由唯一索引兜底)
		created = book.NewBook(req.Name, req.PubDate, req.Number, req.PageCount,
			req.Description, pubTypeID, authors, req.ShelfID)
		return uc.bookRepo.Create(txCtx, created)
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookResponse{
		BookID:  created.ID,
		Name:    created.Name,
		Number:  created.Number,
		ShelfID: created.ShelfID,
	}, nil
}
