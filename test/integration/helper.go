package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appbook "github.com/xiebiao/bookhouse/internal/application/book"
	appcirculation "github.com/xiebiao/bookhouse/internal/application/circulation"
	appreporting "github.com/xiebiao/bookhouse/internal/application/reporting"
	appshelving "github.com/xiebiao/bookhouse/internal/application/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookhouse/internal/interface/http/handler"
	"github.com/xiebiao/bookhouse/pkg/metrics"
)

// 集成测试辅助工具
// 不依赖外部服务:每个测试起一个进程内Gin引擎,后端是SQLite临时库,
// 请求直接打到引擎的ServeHTTP上

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// IDData 创建类接口的响应数据(只取ID)
type IDData struct {
	ID uint `json:"id"`
}

// setupServer 组装完整的API路由(与生产组装等价,数据库换成SQLite)
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	dsn := filepath.Join(t.TempDir(), "integration_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "打开测试数据库失败")
	require.NoError(t, mysql.AutoMigrate(db), "迁移测试表结构失败")

	txManager := mysql.NewTxManager(db)
	authorRepo := mysql.NewAuthorRepository(db)
	pubTypeRepo := mysql.NewPublicationTypeRepository(db)
	librarianRepo := mysql.NewLibrarianRepository(db)
	readerRepo := mysql.NewReaderRepository(db)
	hallRepo := mysql.NewHallRepository(db)
	caseRepo := mysql.NewCaseRepository(db)
	shelfRepo := mysql.NewShelfRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	journalRepo := mysql.NewJournalRepository(db)
	reportingQueries := mysql.NewReportingQueries(db)

	createBookUseCase := appbook.NewCreateBookUseCase(bookRepo, authorRepo, pubTypeRepo, shelfRepo, txManager)
	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo)
	manageBookUseCase := appbook.NewManageBookUseCase(bookRepo)
	hallUseCase := appshelving.NewHallUseCase(hallRepo, caseRepo, shelfRepo, librarianRepo, txManager)
	caseUseCase := appshelving.NewCaseUseCase(hallRepo, caseRepo, shelfRepo)
	shelfUseCase := appshelving.NewShelfUseCase(caseRepo, shelfRepo)
	checkOutUseCase := appcirculation.NewCheckOutBookUseCase(bookRepo, journalRepo, readerRepo, librarianRepo, txManager)
	returnUseCase := appcirculation.NewReturnBookUseCase(bookRepo, shelfRepo, journalRepo, readerRepo, librarianRepo, txManager)
	reportsUseCase := appreporting.NewReportsUseCase(reportingQueries)

	catalogHandler := handler.NewCatalogHandler(authorRepo, pubTypeRepo, librarianRepo, readerRepo)
	bookHandler := handler.NewBookHandler(createBookUseCase, listBooksUseCase, manageBookUseCase)
	shelvingHandler := handler.NewShelvingHandler(hallUseCase, caseUseCase, shelfUseCase)
	circulationHandler := handler.NewCirculationHandler(checkOutUseCase, returnUseCase, journalRepo)
	reportingHandler := handler.NewReportingHandler(reportsUseCase)

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		v1.POST("/authors", catalogHandler.CreateAuthor)
		v1.GET("/authors", catalogHandler.ListAuthors)
		v1.DELETE("/authors/:id", catalogHandler.DeleteAuthor)

		v1.POST("/publication-types", catalogHandler.CreatePublicationType)
		v1.GET("/publication-types", catalogHandler.ListPublicationTypes)
		v1.DELETE("/publication-types/:id", catalogHandler.DeletePublicationType)

		v1.POST("/librarians", catalogHandler.CreateLibrarian)
		v1.GET("/librarians", catalogHandler.ListLibrarians)
		v1.DELETE("/librarians/:id", catalogHandler.DeleteLibrarian)

		v1.POST("/readers", catalogHandler.CreateReader)
		v1.GET("/readers", catalogHandler.ListReaders)
		v1.DELETE("/readers/:id", catalogHandler.DeleteReader)

		v1.POST("/halls", shelvingHandler.CreateHall)
		v1.GET("/halls", shelvingHandler.ListHalls)
		v1.GET("/halls/:id/cases", shelvingHandler.ListHallCases)
		v1.DELETE("/halls/:id", shelvingHandler.DeleteHall)

		v1.POST("/cases", shelvingHandler.CreateCase)
		v1.GET("/cases", shelvingHandler.ListCases)
		v1.GET("/cases/:id/shelves", shelvingHandler.ListCaseShelves)
		v1.DELETE("/cases/:id", shelvingHandler.DeleteCase)

		v1.POST("/shelves", shelvingHandler.CreateShelf)
		v1.GET("/shelves", shelvingHandler.ListShelves)
		v1.GET("/shelves/:id", shelvingHandler.GetShelf)
		v1.DELETE("/shelves/:id", shelvingHandler.DeleteShelf)

		books := v1.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		circulation := v1.Group("/circulation")
		{
			circulation.POST("/check-out", circulationHandler.CheckOut)
			circulation.POST("/return", circulationHandler.Return)
			circulation.GET("/journal", circulationHandler.ListJournal)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/books-by-author", reportingHandler.CountBooksByAuthor)
			reports.GET("/top-ten-books", reportingHandler.TopTenBooks)
			reports.GET("/books-on-hand", reportingHandler.BooksOnHandByReader)
			reports.GET("/hall-summaries", reportingHandler.HallSummaries)
			reports.GET("/never-taken-books", reportingHandler.NeverTakenBooks)
			reports.GET("/shelf-history", reportingHandler.ShelfHistory)
		}
	}

	return r
}

// doRequest 向进程内引擎发送请求并解析统一响应
func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err, "JSON序列化失败")
		reader = bytes.NewBuffer(jsonData)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var result Response
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "解析JSON响应失败: %s", w.Body.String())
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *Response {
	return doRequest(t, r, http.MethodPost, path, body)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, r *gin.Engine, path string) *Response {
	return doRequest(t, r, http.MethodGet, path, nil)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, r *gin.Engine, path string) *Response {
	return doRequest(t, r, http.MethodDelete, path, nil)
}

// mustID 从创建类响应中取出ID
func mustID(t *testing.T, resp *Response) uint {
	t.Helper()
	require.Equal(t, 0, resp.Code, "请求失败: %s", resp.Message)

	var data IDData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析响应数据失败")
	require.NotZero(t, data.ID)
	return data.ID
}

// CreateLibrarian 创建管理员并返回ID
func CreateLibrarian(t *testing.T, r *gin.Engine, fio string) uint {
	return mustID(t, PostJSON(t, r, "/api/v1/librarians", map[string]string{"fio": fio}))
}

// CreateReader 创建读者并返回ID
func CreateReader(t *testing.T, r *gin.Engine, fio string) uint {
	return mustID(t, PostJSON(t, r, "/api/v1/readers", map[string]string{"fio": fio}))
}

// CreateHierarchy 创建大厅→书柜→书架链,返回书架ID
func CreateHierarchy(t *testing.T, r *gin.Engine, hallName, librarianFIO string) (hallID, caseID, shelfID uint) {
	hallID = mustID(t, PostJSON(t, r, "/api/v1/halls", map[string]interface{}{
		"name":          hallName,
		"librarian_fio": librarianFIO,
	}))
	caseID = mustID(t, PostJSON(t, r, "/api/v1/cases", map[string]interface{}{
		"number":  1,
		"hall_id": hallID,
	}))
	shelfID = mustID(t, PostJSON(t, r, "/api/v1/shelves", map[string]interface{}{
		"number":  1,
		"case_id": caseID,
	}))
	return hallID, caseID, shelfID
}

// CreateBook 登记图书并返回ID
func CreateBook(t *testing.T, r *gin.Engine, name string, number uint, shelfID *uint, authors ...string) uint {
	req := map[string]interface{}{
		"name":       name,
		"number":     number,
		"page_count": 100,
		"authors":    authors,
	}
	if shelfID != nil {
		req["shelf_id"] = *shelfID
	}
	resp := PostJSON(t, r, "/api/v1/books", req)
	require.Equal(t, 0, resp.Code, "图书入库失败: %s", resp.Message)

	var data struct {
		BookID uint `json:"book_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析入库响应失败")
	require.NotZero(t, data.BookID)
	return data.BookID
}
