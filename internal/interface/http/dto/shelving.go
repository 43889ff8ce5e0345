package dto

// 书库层级(大厅/书柜/书架)请求DTO

// CreateHallRequest 创建大厅请求
// 负责管理员按姓名嵌套录入(get-or-create)
type CreateHallRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	LibrarianFIO string `json:"librarian_fio" binding:"required,max=200"`
}

// CreateCaseRequest 创建书柜请求
type CreateCaseRequest struct {
	Number uint `json:"number" binding:"required"`
	HallID uint `json:"hall_id" binding:"required"`
}

// CreateShelfRequest 创建书架请求
type CreateShelfRequest struct {
	Number uint `json:"number" binding:"required"`
	CaseID uint `json:"case_id" binding:"required"`
}

// ShelvingListQuery 层级列表查询参数
type ShelvingListQuery struct {
	Name     string `form:"name"`
	Number   uint   `form:"number"`
	OrderBy  string `form:"order_by"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
