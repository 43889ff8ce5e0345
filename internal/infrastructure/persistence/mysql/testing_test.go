package mysql

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
)

// 测试基础设施
// 仓储测试使用SQLite临时文件库,表结构与生产MySQL共用同一套AutoMigrate,
// 行级锁与重复键判断在utils.go中做了方言兼容

// openTestDB 打开每个测试独立的SQLite库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "bookhouse_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "打开测试数据库失败")

	require.NoError(t, AutoMigrate(db), "迁移测试表结构失败")
	return db
}

// seedLibrarian 插入管理员
func seedLibrarian(t *testing.T, db *gorm.DB, fio string) *catalog.Librarian {
	t.Helper()
	l := &catalog.Librarian{FIO: fio}
	require.NoError(t, NewLibrarianRepository(db).Create(context.Background(), l))
	return l
}

// seedReader 插入读者
func seedReader(t *testing.T, db *gorm.DB, fio string) *catalog.Reader {
	t.Helper()
	r := &catalog.Reader{FIO: fio}
	require.NoError(t, NewReaderRepository(db).Create(context.Background(), r))
	return r
}

// seedAuthor 插入作者
func seedAuthor(t *testing.T, db *gorm.DB, fio string) *catalog.Author {
	t.Helper()
	a := &catalog.Author{FIO: fio}
	require.NoError(t, NewAuthorRepository(db).Create(context.Background(), a))
	return a
}

// seedHierarchy 插入一条完整的大厅→书柜→书架链
func seedHierarchy(t *testing.T, db *gorm.DB, librarianID uint) (*shelving.BookHall, *shelving.BookCase, *shelving.BookShelf) {
	t.Helper()
	ctx := context.Background()

	hall := &shelving.BookHall{Name: "主厅", LibrarianID: librarianID}
	require.NoError(t, NewHallRepository(db).Create(ctx, hall))

	bookCase := &shelving.BookCase{Number: 1, HallID: hall.ID}
	require.NoError(t, NewCaseRepository(db).Create(ctx, bookCase))

	shelf := &shelving.BookShelf{Number: 1, CaseID: bookCase.ID}
	require.NoError(t, NewShelfRepository(db).Create(ctx, shelf))

	return hall, bookCase, shelf
}

// seedShelf 在指定书柜下追加书架
func seedShelf(t *testing.T, db *gorm.DB, caseID, number uint) *shelving.BookShelf {
	t.Helper()
	shelf := &shelving.BookShelf{Number: number, CaseID: caseID}
	require.NoError(t, NewShelfRepository(db).Create(context.Background(), shelf))
	return shelf
}

// seedBook 插入图书(可指定初始书架)
func seedBook(t *testing.T, db *gorm.DB, name string, number uint, shelfID *uint, authors ...catalog.Author) *book.Book {
	t.Helper()
	b := book.NewBook(name, nil, number, 100, "", nil, authors, shelfID)
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

// seedJournal 插入流转日志行
func seedJournal(t *testing.T, db *gorm.DB, entry *circulation.MoveBookJournal) *circulation.MoveBookJournal {
	t.Helper()
	if entry.DateTimeMove.IsZero() {
		entry.DateTimeMove = time.Now()
	}
	require.NoError(t, NewJournalRepository(db).Append(context.Background(), entry))
	return entry
}
