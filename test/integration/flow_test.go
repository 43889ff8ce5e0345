package integration

import (
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// 端到端流程测试
//
// 测试场景覆盖:
// 1. 建立书库层级与图书登记
// 2. 借出→重复借出→归还的完整闭环
// 3. 删除保护(被引用的记录禁止删除)
// 4. 报表接口冒烟

// CheckOutData 借出响应数据
type CheckOutData struct {
	JournalID uint   `json:"journal_id"`
	BookID    uint   `json:"book_id"`
	BookName  string `json:"book_name"`
	ReaderID  uint   `json:"reader_id"`
}

// ReturnData 归还响应数据
type ReturnData struct {
	JournalID   uint  `json:"journal_id"`
	BookID      uint  `json:"book_id"`
	ShelfID     uint  `json:"shelf_id"`
	ClosedLoans int64 `json:"closed_loans"`
}

func TestCirculationFlow(t *testing.T) {
	r := setupServer(t)

	librarianID := CreateLibrarian(t, r, "Смирнова А.В.")
	readerID := CreateReader(t, r, "Петров П.П.")
	_, _, shelfID := CreateHierarchy(t, r, "主厅", "Смирнова А.В.")
	bookID := CreateBook(t, r, "战争与和平", 1001, &shelfID, "Толстой Л.Н.")

	t.Run("借出在架图书", func(t *testing.T) {
		resp := PostJSON(t, r, "/api/v1/circulation/check-out", map[string]interface{}{
			"book_id":             bookID,
			"reader_id":           readerID,
			"librarian_id":        librarianID,
			"outside_the_library": true,
		})
		require.Equal(t, 0, resp.Code, "借出失败: %s", resp.Message)

		var data CheckOutData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.JournalID)
		assert.Equal(t, bookID, data.BookID)
		assert.Equal(t, "战争与和平", data.BookName)
	})

	t.Run("外借中的图书不可再借", func(t *testing.T) {
		resp := PostJSON(t, r, "/api/v1/circulation/check-out", map[string]interface{}{
			"book_id":      bookID,
			"reader_id":    readerID,
			"librarian_id": librarianID,
		})
		assert.Equal(t, apperrors.ErrCodeInvalidState, resp.Code)
	})

	t.Run("归还后图书落架", func(t *testing.T) {
		resp := PostJSON(t, r, "/api/v1/circulation/return", map[string]interface{}{
			"book_id":      bookID,
			"reader_id":    readerID,
			"librarian_id": librarianID,
		})
		require.Equal(t, 0, resp.Code, "归还失败: %s", resp.Message)

		var data ReturnData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, shelfID, data.ShelfID) // 首次适应:落回唯一的书架
		assert.Equal(t, int64(1), data.ClosedLoans)

		// 图书详情:已在架
		detail := GetJSON(t, r, fmt.Sprintf("/api/v1/books/%d", bookID))
		require.Equal(t, 0, detail.Code)

		var book struct {
			ShelfID *uint `json:"shelf_id"`
			OnLoan  bool  `json:"on_loan"`
		}
		require.NoError(t, json.Unmarshal(detail.Data, &book))
		assert.False(t, book.OnLoan)
		require.NotNil(t, book.ShelfID)
		assert.Equal(t, shelfID, *book.ShelfID)
	})

	t.Run("流转日志完整", func(t *testing.T) {
		resp := GetJSON(t, r, fmt.Sprintf("/api/v1/circulation/journal?book_id=%d", bookID))
		require.Equal(t, 0, resp.Code)

		var page struct {
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &page))
		assert.Equal(t, int64(2), page.Total) // 一条借出行 + 一条归还行
	})
}

func TestDeleteProtection(t *testing.T) {
	r := setupServer(t)

	librarianID := CreateLibrarian(t, r, "Иванова И.И.")
	readerID := CreateReader(t, r, "Сидоров С.С.")
	hallID, caseID, shelfID := CreateHierarchy(t, r, "东厅", "Иванова И.И.")
	bookID := CreateBook(t, r, "安娜·卡列尼娜", 2001, &shelfID, "Толстой Л.Н.")

	// 产生一条流转日志
	resp := PostJSON(t, r, "/api/v1/circulation/check-out", map[string]interface{}{
		"book_id":             bookID,
		"reader_id":           readerID,
		"librarian_id":        librarianID,
		"outside_the_library": true,
	})
	require.Equal(t, 0, resp.Code, "借出失败: %s", resp.Message)

	t.Run("被日志引用的图书禁止删除", func(t *testing.T) {
		resp := DeleteJSON(t, r, fmt.Sprintf("/api/v1/books/%d", bookID))
		assert.Equal(t, apperrors.ErrCodeReferentialIntegrity, resp.Code)
	})

	t.Run("被日志引用的读者与管理员禁止删除", func(t *testing.T) {
		resp := DeleteJSON(t, r, fmt.Sprintf("/api/v1/readers/%d", readerID))
		assert.Equal(t, apperrors.ErrCodeReferentialIntegrity, resp.Code)

		resp = DeleteJSON(t, r, fmt.Sprintf("/api/v1/librarians/%d", librarianID))
		assert.Equal(t, apperrors.ErrCodeReferentialIntegrity, resp.Code)
	})

	t.Run("层级自顶向下禁止删除", func(t *testing.T) {
		resp := DeleteJSON(t, r, fmt.Sprintf("/api/v1/halls/%d", hallID))
		assert.Equal(t, apperrors.ErrCodeReferentialIntegrity, resp.Code)

		resp = DeleteJSON(t, r, fmt.Sprintf("/api/v1/cases/%d", caseID))
		assert.Equal(t, apperrors.ErrCodeReferentialIntegrity, resp.Code)
	})
}

func TestCatalogUniqueness(t *testing.T) {
	r := setupServer(t)

	CreateLibrarian(t, r, "Павлова О.Н.")

	// 管理员姓名全馆唯一
	resp := PostJSON(t, r, "/api/v1/librarians", map[string]string{"fio": "Павлова О.Н."})
	assert.Equal(t, apperrors.ErrCodeUniquenessViolation, resp.Code)

	// 登记号全馆唯一
	CreateBook(t, r, "图书甲", 3001, nil)
	bookResp := PostJSON(t, r, "/api/v1/books", map[string]interface{}{
		"name":       "图书乙",
		"number":     3001,
		"page_count": 100,
	})
	assert.Equal(t, apperrors.ErrCodeUniquenessViolation, bookResp.Code)
}

func TestListBooksExplicitZeroPageSize(t *testing.T) {
	r := setupServer(t)

	CreateBook(t, r, "分页书", 5001, nil)

	// 显式?page_size=0绕过gin的default标签,分页计算须归一而不是panic
	resp := GetJSON(t, r, "/api/v1/books?page_size=0")
	require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

	var data struct {
		Total    int64 `json:"total"`
		PageSize int   `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(1), data.Total)
	assert.Equal(t, 20, data.PageSize)
}

func TestReportsEndpoints(t *testing.T) {
	r := setupServer(t)

	librarianID := CreateLibrarian(t, r, "Козлова Е.А.")
	readerID := CreateReader(t, r, "Новиков Н.Н.")
	_, _, shelfID := CreateHierarchy(t, r, "西厅", "Козлова Е.А.")
	bookID := CreateBook(t, r, "罪与罚", 4001, &shelfID, "Достоевский Ф.М.")
	CreateBook(t, r, "白痴", 4002, nil, "Достоевский Ф.М.")

	// 借出一次,让排行报表有数据
	resp := PostJSON(t, r, "/api/v1/circulation/check-out", map[string]interface{}{
		"book_id":             bookID,
		"reader_id":           readerID,
		"librarian_id":        librarianID,
		"outside_the_library": true,
	})
	require.Equal(t, 0, resp.Code, "借出失败: %s", resp.Message)

	t.Run("按作者统计藏书", func(t *testing.T) {
		resp := GetJSON(t, r, "/api/v1/reports/books-by-author?fio="+url.QueryEscape("Достоевский Ф.М."))
		require.Equal(t, 0, resp.Code, "查询失败: %s", resp.Message)

		var data struct {
			AuthorFIO string `json:"author_fio"`
			Books     int64  `json:"books"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, int64(2), data.Books)
	})

	t.Run("借出排行", func(t *testing.T) {
		resp := GetJSON(t, r, "/api/v1/reports/top-ten-books")
		require.Equal(t, 0, resp.Code)

		var rows []struct {
			BookID    uint  `json:"book_id"`
			Checkouts int64 `json:"checkouts"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, bookID, rows[0].BookID)
		assert.Equal(t, int64(1), rows[0].Checkouts)
	})

	t.Run("读者在借统计", func(t *testing.T) {
		resp := GetJSON(t, r, "/api/v1/reports/books-on-hand")
		require.Equal(t, 0, resp.Code)

		var rows []struct {
			ReaderID uint  `json:"reader_id"`
			Count    int64 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, readerID, rows[0].ReaderID)
	})

	t.Run("大厅层级摘要", func(t *testing.T) {
		resp := GetJSON(t, r, "/api/v1/reports/hall-summaries")
		require.Equal(t, 0, resp.Code)

		var rows []struct {
			HallName    string `json:"hall_name"`
			CaseNumbers string `json:"case_numbers"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "西厅", rows[0].HallName)
		assert.Equal(t, "1", rows[0].CaseNumbers)
	})
}
