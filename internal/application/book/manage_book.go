package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/book"
)

// ManageBookUseCase 图书维护用例(更新/删除)
type ManageBookUseCase struct {
	bookRepo book.Repository
}

// NewManageBookUseCase 创建图书维护用例
func NewManageBookUseCase(bookRepo book.Repository) *ManageBookUseCase {
	return &ManageBookUseCase{bookRepo: bookRepo}
}

// UpdateBookRequest 更新请求DTO
// 零值字段不更新(书名/描述传空串、页数传0表示保持原值)
type UpdateBookRequest struct {
	BookID      uint
	Name        string
	Description string
	PageCount   int
	PubDate     *time.Time
}

// Update 更新图书基本信息
// 登记号、书架引用、作者集合不在此路径更新:
// 登记号是业务唯一标识,书架引用只能由流转引擎变更
func (uc *ManageBookUseCase) Update(ctx context.Context, req UpdateBookRequest) error {
	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return err
	}
	b.UpdateInfo(req.Name, req.Description, req.PageCount, req.PubDate)
	return uc.bookRepo.Update(ctx, b)
}

// Delete 删除图书
// 被流转日志引用的图书拒绝删除(保护删除)
func (uc *ManageBookUseCase) Delete(ctx context.Context, id uint) error {
	return uc.bookRepo.Delete(ctx, id)
}
