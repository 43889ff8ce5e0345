package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
)

func TestCountBooksByAuthor(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Достоевский Ф.М.")
	other := seedAuthor(t, db, "Тургенев И.С.")

	seedBook(t, db, "Идиот", 700, nil, *author)
	seedBook(t, db, "Бесы", 701, nil, *author)
	seedBook(t, db, "Отцы и дети", 702, nil, *other)

	q := NewReportingQueries(db)

	count, err := q.CountBooksByAuthor(ctx, "Достоевский Ф.М.")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 无此作者:计数为0
	count, err = q.CountBooksByAuthor(ctx, "Неизвестный")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTopTenBooks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")

	bookA := seedBook(t, db, "热门书A", 710, nil)
	bookB := seedBook(t, db, "普通书B", 711, nil)
	seedBook(t, db, "无人问津C", 712, nil)

	// A被借出3次(未落架日志3条),B被借出1次
	for i := 0; i < 3; i++ {
		seedJournal(t, db, circulation.NewCheckOutEntry(bookA.ID, librarian.ID, reader.ID))
	}
	seedJournal(t, db, circulation.NewCheckOutEntry(bookB.ID, librarian.ID, reader.ID))

	rows, err := NewReportingQueries(db).TopTenBooks(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2) // C无借出日志,不出现

	assert.Equal(t, bookA.ID, rows[0].BookID)
	assert.Equal(t, int64(3), rows[0].Checkouts)
	assert.Equal(t, bookB.ID, rows[1].BookID)
	assert.Equal(t, int64(1), rows[1].Checkouts)
}

func TestTopTenBooksTieBreakByID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")

	// 倒着借:先借后创建的书,验证并列时按图书ID升序
	bookX := seedBook(t, db, "并列X", 720, nil)
	bookY := seedBook(t, db, "并列Y", 721, nil)
	seedJournal(t, db, circulation.NewCheckOutEntry(bookY.ID, librarian.ID, reader.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(bookX.ID, librarian.ID, reader.ID))

	rows, err := NewReportingQueries(db).TopTenBooks(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, bookX.ID, rows[0].BookID)
	assert.Equal(t, bookY.ID, rows[1].BookID)
}

func TestCountBooksOnHandByReader(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	r1 := seedReader(t, db, "多借读者")
	r2 := seedReader(t, db, "少借读者")

	b1 := seedBook(t, db, "书1", 730, nil)
	b2 := seedBook(t, db, "书2", 731, nil)

	seedJournal(t, db, circulation.NewCheckOutEntry(b1.ID, librarian.ID, r1.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b2.ID, librarian.ID, r1.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b1.ID, librarian.ID, r2.ID))
	// 已归还的行不计入在借数
	closed := circulation.NewCheckOutEntry(b2.ID, librarian.ID, r2.ID)
	closed.Returned = true
	seedJournal(t, db, closed)

	rows, err := NewReportingQueries(db).CountBooksOnHandByReader(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, r1.ID, rows[0].ReaderID)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, r2.ID, rows[1].ReaderID)
	assert.Equal(t, int64(1), rows[1].Count)
}

func TestHallsWithCasesAndShelves(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	hallRepo := NewHallRepository(db)
	caseRepo := NewCaseRepository(db)

	hall := &shelving.BookHall{Name: "阅览厅", LibrarianID: librarian.ID}
	require.NoError(t, hallRepo.Create(ctx, hall))
	empty := &shelving.BookHall{Name: "空厅", LibrarianID: librarian.ID}
	require.NoError(t, hallRepo.Create(ctx, empty))

	c1 := &shelving.BookCase{Number: 1, HallID: hall.ID}
	require.NoError(t, caseRepo.Create(ctx, c1))
	c2 := &shelving.BookCase{Number: 2, HallID: hall.ID}
	require.NoError(t, caseRepo.Create(ctx, c2))

	// 书架编号跨书柜平铺:柜1有架1、2,柜2有架1
	seedShelf(t, db, c1.ID, 1)
	seedShelf(t, db, c1.ID, 2)
	seedShelf(t, db, c2.ID, 1)

	rows, err := NewReportingQueries(db).HallsWithCasesAndShelves(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "阅览厅", rows[0].HallName)
	assert.Equal(t, "1, 2", rows[0].CaseNumbers)
	assert.Equal(t, "1, 1, 2", rows[0].ShelfNumbers)

	// 空厅:摘要为空串
	assert.Equal(t, "空厅", rows[1].HallName)
	assert.Equal(t, "", rows[1].CaseNumbers)
	assert.Equal(t, "", rows[1].ShelfNumbers)
}

func TestPublicationsWithNeverTakenBooks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")

	ptRepo := NewPublicationTypeRepository(db)
	ptBook := &catalog.PublicationType{Name: "Книга"}
	require.NoError(t, ptRepo.Create(ctx, ptBook))
	ptMag := &catalog.PublicationType{Name: "Журнал"}
	require.NoError(t, ptRepo.Create(ctx, ptMag))

	never1 := seedBook(t, db, "从未借出1", 740, nil)
	never2 := seedBook(t, db, "从未借出2", 741, nil)
	taken := seedBook(t, db, "借过的书", 742, nil)
	noType := seedBook(t, db, "无类型书", 743, nil)
	_ = noType

	require.NoError(t, db.Model(&BookModel{}).Where("id IN ?", []uint{never1.ID, taken.ID}).
		Update("publication_type_id", ptBook.ID).Error)
	require.NoError(t, db.Model(&BookModel{}).Where("id = ?", never2.ID).
		Update("publication_type_id", ptMag.ID).Error)

	seedJournal(t, db, circulation.NewCheckOutEntry(taken.ID, librarian.ID, reader.ID))

	rows, err := NewReportingQueries(db).PublicationsWithNeverTakenBooks(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// 按类型名称升序:Журнал在Книга之前(字典序)
	assert.Equal(t, "Журнал", rows[0].PublicationType)
	assert.Equal(t, []string{"从未借出2"}, rows[0].BookNames)
	assert.Equal(t, "Книга", rows[1].PublicationType)
	assert.Equal(t, []string{"从未借出1"}, rows[1].BookNames)
}

func TestShelfHistoryByBook(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")
	_, bookCase, shelf1 := seedHierarchy(t, db, librarian.ID)
	shelf2 := seedShelf(t, db, bookCase.ID, 2)

	b := seedBook(t, db, "流浪的书", 750, &shelf1.ID)

	// 两次落架到1号,一次到2号:历史去重后为[1, 2]
	seedJournal(t, db, circulation.NewReturnEntry(b.ID, shelf1.ID, librarian.ID, reader.ID))
	seedJournal(t, db, circulation.NewReturnEntry(b.ID, shelf2.ID, librarian.ID, reader.ID))
	seedJournal(t, db, circulation.NewReturnEntry(b.ID, shelf1.ID, librarian.ID, reader.ID))
	// 借出行(to为空)不计入落架历史
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))

	rows, err := NewReportingQueries(db).ShelfHistoryByBook(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, b.ID, rows[0].BookID)
	assert.Equal(t, "流浪的书", rows[0].BookName)
	assert.Equal(t, shelving.JoinNumbers([]uint{shelf1.ID, shelf2.ID}), rows[0].ShelfIDs)
}
