package catalog

// 目录实体：作者、出版类型、图书管理员、读者
// 设计说明:
// 1. 均为静态参照数据,以自然键(fio/name)对外标识
// 2. 无生命周期行为,创建/查询/删除由仓储负责
// 3. 删除规则:被流转日志或书库层级引用的行禁止删除(保护删除),
//    出版类型例外——删除时其下图书的类型引用置空

// Author 作者
type Author struct {
	ID  uint
	FIO string // 作者姓名(Ф.И.О.)
}

// PublicationType 出版类型
type PublicationType struct {
	ID   uint
	Name string
}

// Librarian 图书管理员
// FIO全局唯一,书库大厅与每条流转日志都会引用
type Librarian struct {
	ID  uint
	FIO string
}

// Reader 读者
type Reader struct {
	ID  uint
	FIO string
}
