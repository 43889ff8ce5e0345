package dto

// 图书请求与响应DTO

// CreateBookRequest 图书入库请求
// 作者与出版类型按自然键嵌套录入(get-or-create)
type CreateBookRequest struct {
	Name            string   `json:"name" binding:"required,max=200"`
	PubDate         string   `json:"pub_date" binding:"omitempty,datetime=2006-01-02"`
	Number          uint     `json:"number" binding:"required"`
	PageCount       int      `json:"page_count" binding:"required,gt=0"`
	Description     string   `json:"description"`
	PublicationType string   `json:"publication_type" binding:"omitempty,max=100"`
	Authors         []string `json:"authors" binding:"omitempty,dive,required,max=200"`
	ShelfID         *uint    `json:"shelf_id"`
}

// UpdateBookRequest 图书信息更新请求
// 零值字段不更新;登记号与书架引用不可经此路径修改
type UpdateBookRequest struct {
	Name        string `json:"name" binding:"omitempty,max=200"`
	Description string `json:"description"`
	PageCount   int    `json:"page_count" binding:"omitempty,gt=0"`
	PubDate     string `json:"pub_date" binding:"omitempty,datetime=2006-01-02"`
}

// BookListQuery 图书列表查询参数
type BookListQuery struct {
	Name        string `form:"name"`
	PubDate     string `form:"pub_date"`
	Description string `form:"description"`
	OrderBy     string `form:"order_by"`
	Page        int    `form:"page,default=1"`
	PageSize    int    `form:"page_size,default=20"`
}
