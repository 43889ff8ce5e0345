package circulation

import (
	"time"
)

// MoveBookJournal 图书流转日志(仅追加)
// 设计说明:
// 1. 每次借出/归还写入一条不可变日志,是借阅状态与历史报表的唯一事实来源
// 2. 日志行创建后唯一允许的变更是把匹配的未归还行的Returned翻转为true
// 3. 日志永不删除,被引用的图书/书架/管理员/读者行受保护删除约束
// 4. FromShelfID字段存在且可空,但借还引擎从不填写(始终为nil),
//    仅保留给人工移架记录使用
type MoveBookJournal struct {
	ID                uint
	BookID            uint       // 流转的图书
	FromShelfID       *uint      // 源书架(引擎不填写)
	ToShelfID         *uint      // 目标书架(借出为nil,归还为分配的书架)
	DateTimeMove      time.Time  // 流转时间(创建时写入)
	LibrarianID       uint       // 经办管理员
	ReaderID          *uint      // 读者(可空)
	OutsideTheLibrary bool       // 是否外借出馆
	Returned          bool       // 是否已归还
}

// NewCheckOutEntry 构造借出日志行
// 借出事件:ToShelfID=nil, Returned=false, OutsideTheLibrary恒为true
// 归还只关闭外借行,借出行必须记为外借才能构成可关闭的闭环;
// 调用方传入的外借标志只参与借阅上限计数,不写入日志
func NewCheckOutEntry(bookID, librarianID, readerID uint) *MoveBookJournal {
	return &MoveBookJournal{
		BookID:            bookID,
		ToShelfID:         nil,
		DateTimeMove:      time.Now(),
		LibrarianID:       librarianID,
		ReaderID:          &readerID,
		OutsideTheLibrary: true,
		Returned:          false,
	}
}

// NewReturnEntry 构造归还日志行
// 归还事件:ToShelfID=分配的书架, Returned=true
func NewReturnEntry(bookID, shelfID, librarianID, readerID uint) *MoveBookJournal {
	return &MoveBookJournal{
		BookID:       bookID,
		ToShelfID:    &shelfID,
		DateTimeMove: time.Now(),
		LibrarianID:  librarianID,
		ReaderID:     &readerID,
		Returned:     true,
	}
}
