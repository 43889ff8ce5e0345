package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookhouse/internal/domain/circulation"
)

func TestJournalCountOpen(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")
	other := seedReader(t, db, "其他读者")
	b := seedBook(t, db, "借阅书", 600, nil)

	repo := NewJournalRepository(db)

	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))
	// 历史数据里的馆内未归还行:外借标志不同,不计入外借计数
	inside := circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID)
	inside.OutsideTheLibrary = false
	seedJournal(t, db, inside)
	// 其他读者的未归还行不计入
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, other.ID))

	count, err := repo.CountOpen(ctx, reader.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountOpen(ctx, reader.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJournalCloseOpenEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")
	b := seedBook(t, db, "归还书", 601, nil)

	repo := NewJournalRepository(db)

	// 两条重复的外借未归还行 + 一条馆内行
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))
	inside := circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID)
	inside.OutsideTheLibrary = false
	seedJournal(t, db, inside)

	// 关闭全部匹配行(仅外借):一次关两条
	closed, err := repo.CloseOpenEntries(ctx, reader.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)

	// 外借行已全部关闭,馆内行不受影响
	count, err := repo.CountOpen(ctx, reader.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	count, err = repo.CountOpen(ctx, reader.ID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 幂等:再关一次,0行受影响
	closed, err = repo.CloseOpenEntries(ctx, reader.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed)
}

func TestJournalHasOpenEntry(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")
	b := seedBook(t, db, "状态书", 602, nil)

	repo := NewJournalRepository(db)

	has, err := repo.HasOpenEntry(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, has)

	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))

	has, err = repo.HasOpenEntry(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestJournalAppendOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	reader := seedReader(t, db, "读者")
	_, _, shelf := seedHierarchy(t, db, librarian.ID)
	b := seedBook(t, db, "日志书", 603, &shelf.ID)

	repo := NewJournalRepository(db)

	checkOut := seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))
	ret := seedJournal(t, db, circulation.NewReturnEntry(b.ID, shelf.ID, librarian.ID, reader.ID))

	// 借出行:to为空,引擎从不填写from
	assert.Nil(t, checkOut.ToShelfID)
	assert.Nil(t, checkOut.FromShelfID)
	// 归还行:to为分配的书架,创建即已归还
	require.NotNil(t, ret.ToShelfID)
	assert.Equal(t, shelf.ID, *ret.ToShelfID)
	assert.True(t, ret.Returned)

	entries, total, err := repo.List(ctx, circulation.ListParams{BookID: b.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	// 列表行附带关联名称
	assert.Equal(t, "日志书", entries[0].BookName)
	assert.Equal(t, "管理员", entries[0].LibrarianFIO)
	assert.Equal(t, "读者", entries[0].ReaderFIO)
}

func TestJournalListFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员")
	r1 := seedReader(t, db, "读者1")
	r2 := seedReader(t, db, "读者2")
	b1 := seedBook(t, db, "书1", 604, nil)
	b2 := seedBook(t, db, "书2", 605, nil)

	repo := NewJournalRepository(db)

	seedJournal(t, db, circulation.NewCheckOutEntry(b1.ID, librarian.ID, r1.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b2.ID, librarian.ID, r1.ID))
	seedJournal(t, db, circulation.NewCheckOutEntry(b1.ID, librarian.ID, r2.ID))

	_, total, err := repo.List(ctx, circulation.ListParams{BookID: b1.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, circulation.ListParams{ReaderID: r1.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, circulation.ListParams{BookID: b1.ID, ReaderID: r2.ID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
