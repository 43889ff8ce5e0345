package circulation

import (
	"context"
)

// MaxOpenLoans 同一读者对同一图书、同一外借标志允许的未归还日志上限
// 注意:这是对(读者, 图书, 外借标志)三元组的窄范围校验,
// 不是读者全部在借图书的总数上限
const MaxOpenLoans = 3

// ListParams 流转日志列表查询参数
type ListParams struct {
	BookID   uint // 按图书过滤(0表示不过滤)
	ReaderID uint // 按读者过滤(0表示不过滤)
	Page     int  // 页码(从1开始)
	PageSize int  // 每页数量
}

// EntryWithNames 日志列表行,附带图书名与经办人/读者姓名
type EntryWithNames struct {
	MoveBookJournal
	BookName     string
	LibrarianFIO string
	ReaderFIO    string // 读者为空时为空串
}

// Repository 流转日志仓储接口
// 日志仅追加:除CloseOpenEntries翻转Returned标志外不提供任何更新,不提供删除
type Repository interface {
	// Append 追加一条流转日志
	Append(ctx context.Context, entry *MoveBookJournal) error

	// CountOpen 统计未归还日志数
	// 匹配条件:同读者、同图书、同外借标志、Returned=false
	CountOpen(ctx context.Context, readerID, bookID uint, outsideTheLibrary bool) (int64, error)

	// CloseOpenEntries 关闭匹配的未归还日志
	// 匹配条件:(读者, 图书, OutsideTheLibrary=true, Returned=false)
	// 正常只有一行,但定义为关闭全部匹配行,对重复未归还行幂等
	// 返回被关闭的行数
	CloseOpenEntries(ctx context.Context, readerID, bookID uint) (int64, error)

	// HasOpenEntry 图书是否存在任何未归还日志
	HasOpenEntry(ctx context.Context, bookID uint) (bool, error)

	// List 分页查询流转日志,附带关联名称
	List(ctx context.Context, params ListParams) ([]*EntryWithNames, int64, error)
}
