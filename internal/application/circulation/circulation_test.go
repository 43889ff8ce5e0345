package circulation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
	"github.com/xiebiao/bookhouse/pkg/metrics"
)

// 流转引擎端到端测试
// 使用SQLite临时库跑完整的 用例→事务→仓储 链路

// testEnv 测试环境:全部仓储与两个流转用例
type testEnv struct {
	db          *gorm.DB
	bookRepo    book.Repository
	shelfRepo   shelving.ShelfRepository
	journalRepo circulation.Repository
	checkOut    *CheckOutBookUseCase
	returnBook  *ReturnBookUseCase

	librarian *catalog.Librarian
	reader    *catalog.Reader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	metrics.InitMetrics()

	dsn := filepath.Join(t.TempDir(), "circulation_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))

	txManager := mysql.NewTxManager(db)
	bookRepo := mysql.NewBookRepository(db)
	shelfRepo := mysql.NewShelfRepository(db)
	journalRepo := mysql.NewJournalRepository(db)
	readerRepo := mysql.NewReaderRepository(db)
	librarianRepo := mysql.NewLibrarianRepository(db)

	env := &testEnv{
		db:          db,
		bookRepo:    bookRepo,
		shelfRepo:   shelfRepo,
		journalRepo: journalRepo,
		checkOut:    NewCheckOutBookUseCase(bookRepo, journalRepo, readerRepo, librarianRepo, txManager),
		returnBook:  NewReturnBookUseCase(bookRepo, shelfRepo, journalRepo, readerRepo, librarianRepo, txManager),
	}

	ctx := context.Background()
	env.librarian = &catalog.Librarian{FIO: "Библиотекарь"}
	require.NoError(t, librarianRepo.Create(ctx, env.librarian))
	env.reader = &catalog.Reader{FIO: "Читатель"}
	require.NoError(t, readerRepo.Create(ctx, env.reader))

	return env
}

// addShelf 追加一条大厅→书柜→书架链,返回书架
func (e *testEnv) addShelf(t *testing.T, number uint) *shelving.BookShelf {
	t.Helper()
	ctx := context.Background()

	hallRepo := mysql.NewHallRepository(e.db)
	caseRepo := mysql.NewCaseRepository(e.db)

	hall := &shelving.BookHall{Name: "大厅", LibrarianID: e.librarian.ID}
	require.NoError(t, hallRepo.Create(ctx, hall))
	bookCase := &shelving.BookCase{Number: number, HallID: hall.ID}
	require.NoError(t, caseRepo.Create(ctx, bookCase))
	shelf := &shelving.BookShelf{Number: number, CaseID: bookCase.ID}
	require.NoError(t, e.shelfRepo.Create(ctx, shelf))
	return shelf
}

// addBook 登记一本书(可指定初始书架)
func (e *testEnv) addBook(t *testing.T, number uint, shelfID *uint) *book.Book {
	t.Helper()
	b := book.NewBook("测试书", nil, number, 100, "", nil, nil, shelfID)
	require.NoError(t, e.bookRepo.Create(context.Background(), b))
	return b
}

func TestCheckOutShelvedBook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, &shelf.ID)

	resp, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:            b.ID,
		ReaderID:          env.reader.ID,
		LibrarianID:       env.librarian.ID,
		OutsideTheLibrary: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.JournalID)

	// 图书转为外借状态
	found, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, found.IsOnLoan())

	// 借出日志:to为空,from为空,未归还
	entries, _, err := env.journalRepo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ToShelfID)
	assert.Nil(t, entries[0].FromShelfID)
	assert.True(t, entries[0].OutsideTheLibrary)
	assert.False(t, entries[0].Returned)
}

func TestCheckOutOmittedFlagReturnRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, &shelf.ID)

	// 请求体省略外借标志(JSON零值false):日志行仍须记为外借
	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:      b.ID,
		ReaderID:    env.reader.ID,
		LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)

	entries, _, err := env.journalRepo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].OutsideTheLibrary)

	// 归还能关闭这条借出行,不留悬挂的未归还记录
	resp, err := env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID: b.ID, ReaderID: env.reader.ID, LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ClosedLoans)

	found, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, found.IsShelved())

	has, err := env.journalRepo.HasOpenEntry(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, has)
	open, err := env.journalRepo.CountOpen(ctx, env.reader.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), open)
}

func TestCheckOutOnLoanBookFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 书架引用为空:图书在别的读者手上
	b := env.addBook(t, 1, nil)

	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:      b.ID,
		ReaderID:    env.reader.ID,
		LibrarianID: env.librarian.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidState))

	// 失败的借出不留任何日志
	_, total, err := env.journalRepo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCheckOutLoanLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, &shelf.ID)

	// 预置4条同读者、同图书、同外借标志的未归还日志
	for i := 0; i < 4; i++ {
		entry := circulation.NewCheckOutEntry(b.ID, env.librarian.ID, env.reader.ID)
		require.NoError(t, env.journalRepo.Append(ctx, entry))
	}

	// 未归还数4 > 上限3:第5次借出失败
	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:            b.ID,
		ReaderID:          env.reader.ID,
		LibrarianID:       env.librarian.ID,
		OutsideTheLibrary: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLoanLimitExceeded))

	// 图书仍在架,没有追加新日志
	found, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, found.IsShelved())
	count, err := env.journalRepo.CountOpen(ctx, env.reader.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestCheckOutLoanLimitBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, &shelf.ID)

	// 恰好3条未归还:未超上限,借出仍然成功
	for i := 0; i < circulation.MaxOpenLoans; i++ {
		entry := circulation.NewCheckOutEntry(b.ID, env.librarian.ID, env.reader.ID)
		require.NoError(t, env.journalRepo.Append(ctx, entry))
	}

	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:            b.ID,
		ReaderID:          env.reader.ID,
		LibrarianID:       env.librarian.ID,
		OutsideTheLibrary: true,
	})
	require.NoError(t, err)
}

func TestReturnClosesAllOpenEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, nil)

	// 两条重复的未归还外借行
	for i := 0; i < 2; i++ {
		entry := circulation.NewCheckOutEntry(b.ID, env.librarian.ID, env.reader.ID)
		require.NoError(t, env.journalRepo.Append(ctx, entry))
	}

	resp, err := env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID:      b.ID,
		ReaderID:    env.reader.ID,
		LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, shelf.ID, resp.ShelfID)
	assert.Equal(t, int64(2), resp.ClosedLoans)

	// 图书落架
	found, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ShelfID)
	assert.Equal(t, shelf.ID, *found.ShelfID)

	// 未归还行清零,并追加了一条归还行
	open, err := env.journalRepo.CountOpen(ctx, env.reader.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), open)

	entries, _, err := env.journalRepo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// 最新一条是归还行(按时间倒序)
	latest := entries[0]
	require.NotNil(t, latest.ToShelfID)
	assert.Equal(t, shelf.ID, *latest.ToShelfID)
	assert.True(t, latest.Returned)
	assert.Nil(t, latest.FromShelfID)
}

func TestReturnFirstFitShelfSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf1 := env.addShelf(t, 1)
	shelf2 := env.addShelf(t, 2)

	// 1号书架放9本,还剩1个空位
	for i := 0; i < shelving.MaxBooksPerShelf-1; i++ {
		env.addBook(t, uint(100+i), &shelf1.ID)
	}

	// 第一次归还:落到1号(填满它)
	b1 := env.addBook(t, 1, nil)
	resp, err := env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID: b1.ID, ReaderID: env.reader.ID, LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, shelf1.ID, resp.ShelfID)

	// 第二次归还:1号已满,落到2号
	b2 := env.addBook(t, 2, nil)
	resp, err = env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID: b2.ID, ReaderID: env.reader.ID, LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, shelf2.ID, resp.ShelfID)

	// 容量不变式:任何书架都不超过上限
	count, err := env.bookRepo.CountByShelf(ctx, shelf1.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(shelving.MaxBooksPerShelf))
}

func TestReturnNoShelfAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	for i := 0; i < shelving.MaxBooksPerShelf; i++ {
		env.addBook(t, uint(200+i), &shelf.ID)
	}

	b := env.addBook(t, 1, nil)
	_, err := env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID: b.ID, ReaderID: env.reader.ID, LibrarianID: env.librarian.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCapacityExceeded))

	// 归还失败:图书保持外借状态,不追加日志
	found, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, found.IsOnLoan())
	_, total, err := env.journalRepo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCheckOutThenReturnRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 42, &shelf.ID)

	// 借出
	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:            b.ID,
		ReaderID:          env.reader.ID,
		LibrarianID:       env.librarian.ID,
		OutsideTheLibrary: true,
	})
	require.NoError(t, err)

	// 外借中再借:失败
	_, err = env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:      b.ID,
		ReaderID:    env.reader.ID,
		LibrarianID: env.librarian.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidState))

	// 归还
	resp, err := env.returnBook.Execute(ctx, ReturnBookRequest{
		BookID: b.ID, ReaderID: env.reader.ID, LibrarianID: env.librarian.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ClosedLoans)

	// 再次可借
	_, err = env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID:            b.ID,
		ReaderID:          env.reader.ID,
		LibrarianID:       env.librarian.ID,
		OutsideTheLibrary: true,
	})
	require.NoError(t, err)
}

func TestCheckOutUnknownReaderOrLibrarian(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shelf := env.addShelf(t, 1)
	b := env.addBook(t, 1, &shelf.ID)

	_, err := env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID: b.ID, ReaderID: 9999, LibrarianID: env.librarian.ID,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReaderNotFound))

	_, err = env.checkOut.Execute(ctx, CheckOutBookRequest{
		BookID: b.ID, ReaderID: env.reader.ID, LibrarianID: 9999,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLibrarianNotFound))
}
