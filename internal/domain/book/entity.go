package book

import (
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. Number是全馆唯一的登记号(业务唯一标识,数据库层保证唯一性)
// 2. ShelfID为空 ⟺ 图书当前在读者手上(OnLoan状态);
//    非空 ⟺ 图书在架可借(Shelved状态)——这是流转引擎的核心状态位
// 3. 作者为多对多集合,出版类型可为空(类型删除后图书失去类型引用)
type Book struct {
	ID                uint
	Name              string            // 书名
	PubDate           *time.Time        // 出版日期(可空)
	Number            uint              // 登记号(全馆唯一)
	PageCount         int               // 页数
	Description       string            // 描述
	PublicationTypeID *uint             // 出版类型(可空引用)
	Authors           []catalog.Author  // 作者集合(≥0)
	ShelfID           *uint             // 当前书架(空=外借中)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewBook 创建新图书(工厂方法)
// shelfID为nil时图书自创建起即视为外借状态(入库时未上架)
func NewBook(name string, pubDate *time.Time, number uint, pageCount int, description string,
	publicationTypeID *uint, authors []catalog.Author, shelfID *uint) *Book {
	now := time.Now()
	return &Book{
		Name:              name,
		PubDate:           pubDate,
		Number:            number,
		PageCount:         pageCount,
		Description:       description,
		PublicationTypeID: publicationTypeID,
		Authors:           authors,
		ShelfID:           shelfID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsShelved 图书是否在架(可借)
func (b *Book) IsShelved() bool {
	return b.ShelfID != nil
}

// IsOnLoan 图书是否在读者手上
func (b *Book) IsOnLoan() bool {
	return b.ShelfID == nil
}

// PlaceOnShelf 上架(领域行为)
func (b *Book) PlaceOnShelf(shelfID uint) {
	b.ShelfID = &shelfID
	b.UpdatedAt = time.Now()
}

// TakeOffShelf 下架外借(领域行为)
// 状态校验由流转引擎在事务内完成,这里只做状态切换
func (b *Book) TakeOffShelf() {
	b.ShelfID = nil
	b.UpdatedAt = time.Now()
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(name, description string, pageCount int, pubDate *time.Time) {
	if name != "" {
		b.Name = name
	}
	if description != "" {
		b.Description = description
	}
	if pageCount > 0 {
		b.PageCount = pageCount
	}
	if pubDate != nil {
		b.PubDate = pubDate
	}
	b.UpdatedAt = time.Now()
}
