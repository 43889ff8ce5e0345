package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/book"
)

// ListBooksUseCase 图书查询用例
type ListBooksUseCase struct {
	bookRepo book.Repository
}

// NewListBooksUseCase 创建图书查询用例
func NewListBooksUseCase(bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookRepo: bookRepo}
}

// ListBooksRequest 列表请求DTO
type ListBooksRequest struct {
	Name        string // 按书名模糊过滤
	PubDate     string // 按出版日期过滤(YYYY-MM-DD)
	Description string // 按描述模糊过滤
	OrderBy     string // 排序(name_asc/name_desc/pub_date_asc/pub_date_desc)
	Page        int
	PageSize    int
}

// BookView 图书视图
type BookView struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	PubDate         string   `json:"pub_date,omitempty"`
	Number          uint     `json:"number"`
	PageCount       int      `json:"page_count"`
	Description     string   `json:"description,omitempty"`
	Authors         []string `json:"authors"`
	ShelfID         *uint    `json:"shelf_id"` // 空=外借中
	OnLoan          bool     `json:"on_loan"`
}

// Execute 分页查询图书列表
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]BookView, int64, error) {
	books, total, err := uc.bookRepo.List(ctx, book.ListParams{
		Name:        req.Name,
		PubDate:     req.PubDate,
		Description: req.Description,
		OrderBy:     req.OrderBy,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = toBookView(b)
	}
	return views, total, nil
}

// Get 按ID查询单本图书
func (uc *ListBooksUseCase) Get(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toBookView(b)
	return &view, nil
}

// toBookView 领域实体 → 视图
func toBookView(b *book.Book) BookView {
	authors := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = a.FIO
	}
	var pubDate string
	if b.PubDate != nil {
		pubDate = b.PubDate.Format(time.DateOnly)
	}
	return BookView{
		ID:          b.ID,
		Name:        b.Name,
		PubDate:     pubDate,
		Number:      b.Number,
		PageCount:   b.PageCount,
		Description: b.Description,
		Authors:     authors,
		ShelfID:     b.ShelfID,
		OnLoan:      b.IsOnLoan(),
	}
}
