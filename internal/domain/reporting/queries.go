package reporting

import (
	"context"
)

// 报表查询:只读,每次从当前日志+图书+目录状态现算
// 设计说明:
// 1. 不做缓存、不做增量维护,结果随底层数据实时变化
// 2. 无副作用,可与借还事务在快照隔离下并发执行
// 3. 由domain层定义接口,infrastructure层用SQL/内存实现

// BookCheckoutCount 图书借出次数统计行
type BookCheckoutCount struct {
	BookID    uint   `json:"book_id"`
	BookName  string `json:"book_name"`
	Checkouts int64  `json:"checkouts"` // 未落架日志数(to_book_shelf为空)
}

// ReaderOnHandCount 读者在借数量统计行
type ReaderOnHandCount struct {
	ReaderID  uint   `json:"reader_id"`
	ReaderFIO string `json:"reader_fio"`
	Count     int64  `json:"count"` // 未归还日志数
}

// HallSummary 大厅及下属书柜/书架摘要行
type HallSummary struct {
	HallID       uint   `json:"hall_id"`
	HallName     string `json:"hall_name"`
	CaseNumbers  string `json:"case_numbers"`  // 书柜编号,逗号拼接
	ShelfNumbers string `json:"shelf_numbers"` // 书架编号,跨书柜平铺拼接(不按柜分组)
}

// PublicationBooks 出版类型下从未被借出的图书
type PublicationBooks struct {
	PublicationType string   `json:"publication_type"`
	BookNames       []string `json:"book_names"`
}

// BookShelfHistory 图书的归还落架历史
type BookShelfHistory struct {
	BookID   uint   `json:"book_id"`
	BookName string `json:"book_name"`
	ShelfIDs string `json:"shelf_ids"` // 去重后的落架书架ID,逗号拼接
}

// Queries 报表查询接口
type Queries interface {
	// CountBooksByAuthor 统计作者名下的图书数(按姓名精确匹配)
	CountBooksByAuthor(ctx context.Context, authorFIO string) (int64, error)

	// TopTenBooks 借出次数最多的前10本书
	// 统计口径:to_book_shelf为空的日志数(借出后尚未落架),降序
	// 并列时按图书ID升序(在底层顺序上稳定)
	TopTenBooks(ctx context.Context) ([]BookCheckoutCount, error)

	// CountBooksOnHandByReader 按读者分组统计未归还日志数
	CountBooksOnHandByReader(ctx context.Context) ([]ReaderOnHandCount, error)

	// HallsWithCasesAndShelves 每个大厅的书柜编号摘要与书架编号摘要
	HallsWithCasesAndShelves(ctx context.Context) ([]HallSummary, error)

	// PublicationsWithNeverTakenBooks 按出版类型列出从未被借出的图书
	// "从未被借出"=不存在to_book_shelf为空的日志行
	PublicationsWithNeverTakenBooks(ctx context.Context) ([]PublicationBooks, error)

	// ShelfHistoryByBook 每本书历史上归还落架过的全部书架ID(去重)
	ShelfHistoryByBook(ctx context.Context) ([]BookShelfHistory, error)
}
