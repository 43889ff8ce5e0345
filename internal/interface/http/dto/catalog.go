package dto

// 目录(作者/出版类型/管理员/读者)请求与响应DTO

// CreatePersonRequest 按姓名创建目录人员(作者/管理员/读者)
type CreatePersonRequest struct {
	FIO string `json:"fio" binding:"required,max=200"`
}

// CreatePublicationTypeRequest 创建出版类型
type CreatePublicationTypeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// PersonResponse 目录人员响应
type PersonResponse struct {
	ID  uint   `json:"id"`
	FIO string `json:"fio"`
}

// PublicationTypeResponse 出版类型响应
type PublicationTypeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CatalogListQuery 目录列表查询参数
type CatalogListQuery struct {
	FIO      string `form:"fio"`
	Name     string `form:"name"`
	OrderBy  string `form:"order_by"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
