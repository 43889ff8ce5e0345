package shelving

import (
	"strconv"
	"strings"
)

// 书库层级:大厅(BookHall) → 书柜(BookCase) → 书架(BookShelf)
// 设计说明:
// 1. 三级树形结构,编号在各自父级范围内唯一
// 2. 书架是图书的物理落点,容量上限MaxBooksPerShelf
// 3. 层级内任意节点被子节点或流转日志引用时禁止删除

// MaxBooksPerShelf 单个书架可容纳的图书上限
const MaxBooksPerShelf = 10

// BookHall 书库大厅
// 必须指定负责的图书管理员
type BookHall struct {
	ID          uint
	Name        string
	LibrarianID uint
}

// BookCase 书柜
// 不变式:(Number, HallID)唯一
type BookCase struct {
	ID     uint
	Number uint
	HallID uint
}

// BookShelf 书架
// 不变式:(Number, CaseID)唯一;架上图书数 ≤ MaxBooksPerShelf
type BookShelf struct {
	ID     uint
	Number uint
	CaseID uint
}

// JoinNumbers 将编号列表拼成逗号分隔的摘要串
// 用于紧凑报表展示(如大厅下属书柜编号"1, 2, 3"),不参与后续计算
func JoinNumbers(numbers []uint) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, ", ")
}
