package dto

// 流转(借出/归还/日志)请求DTO

// CheckOutRequest 借出请求
// OutsideTheLibrary只参与借阅上限的计数口径,日志行一律记为外借
type CheckOutRequest struct {
	BookID            uint `json:"book_id" binding:"required"`
	ReaderID          uint `json:"reader_id" binding:"required"`
	LibrarianID       uint `json:"librarian_id" binding:"required"`
	OutsideTheLibrary bool `json:"outside_the_library"`
}

// ReturnRequest 归还请求
// 不指定书架:落架书架由系统按首次适应自动分配
type ReturnRequest struct {
	BookID      uint `json:"book_id" binding:"required"`
	ReaderID    uint `json:"reader_id" binding:"required"`
	LibrarianID uint `json:"librarian_id" binding:"required"`
}

// JournalListQuery 流转日志列表查询参数
type JournalListQuery struct {
	BookID   uint `form:"book_id"`
	ReaderID uint `form:"reader_id"`
	Page     int  `form:"page,default=1"`
	PageSize int  `form:"page_size,default=20"`
}

// JournalResponse 流转日志响应
type JournalResponse struct {
	ID                uint   `json:"id"`
	BookID            uint   `json:"book_id"`
	BookName          string `json:"book_name"`
	FromShelfID       *uint  `json:"from_book_shelf"`
	ToShelfID         *uint  `json:"to_book_shelf"` // 空=借出中
	DateTimeMove      string `json:"date_time_move"`
	LibrarianID       uint   `json:"librarian_id"`
	LibrarianFIO      string `json:"librarian_fio"`
	ReaderID          *uint  `json:"reader_id"`
	ReaderFIO         string `json:"reader_fio,omitempty"`
	OutsideTheLibrary bool   `json:"outside_the_library"`
	Returned          bool   `json:"returned"`
}
