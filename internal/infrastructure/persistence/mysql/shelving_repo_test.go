package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

func TestCaseNumberUniquePerHall(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员A")
	hall, _, _ := seedHierarchy(t, db, librarian.ID)

	caseRepo := NewCaseRepository(db)

	// 同一大厅内编号重复必须失败
	err := caseRepo.Create(ctx, &shelving.BookCase{Number: 1, HallID: hall.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUniquenessViolation))

	// 另一个大厅可以复用编号
	hall2 := &shelving.BookHall{Name: "副厅", LibrarianID: librarian.ID}
	require.NoError(t, NewHallRepository(db).Create(ctx, hall2))
	require.NoError(t, caseRepo.Create(ctx, &shelving.BookCase{Number: 1, HallID: hall2.ID}))
}

func TestShelfNumberUniquePerCase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员B")
	hall, bookCase, _ := seedHierarchy(t, db, librarian.ID)

	shelfRepo := NewShelfRepository(db)

	err := shelfRepo.Create(ctx, &shelving.BookShelf{Number: 1, CaseID: bookCase.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUniquenessViolation))

	// 另一个书柜可以复用编号
	case2 := &shelving.BookCase{Number: 2, HallID: hall.ID}
	require.NoError(t, NewCaseRepository(db).Create(ctx, case2))
	require.NoError(t, shelfRepo.Create(ctx, &shelving.BookShelf{Number: 1, CaseID: case2.ID}))
}

func TestListByHallOrderedByNumber(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员C")
	hall := &shelving.BookHall{Name: "大厅", LibrarianID: librarian.ID}
	require.NoError(t, NewHallRepository(db).Create(ctx, hall))

	caseRepo := NewCaseRepository(db)
	// 倒序插入,验证列表按编号升序返回
	for _, n := range []uint{3, 1, 2} {
		require.NoError(t, caseRepo.Create(ctx, &shelving.BookCase{Number: n, HallID: hall.ID}))
	}

	cases, err := caseRepo.ListByHall(ctx, hall.ID)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, uint(1), cases[0].Number)
	assert.Equal(t, uint(2), cases[1].Number)
	assert.Equal(t, uint(3), cases[2].Number)
}

func TestFindFirstAvailableFirstFit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员D")
	_, bookCase, shelf1 := seedHierarchy(t, db, librarian.ID)
	shelf2 := seedShelf(t, db, bookCase.ID, 2)

	shelfRepo := NewShelfRepository(db)

	// 1号书架未满:首次适应选中它
	found, err := shelfRepo.FindFirstAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, shelf1.ID, found.ID)

	// 填满1号书架
	for i := 0; i < shelving.MaxBooksPerShelf; i++ {
		seedBook(t, db, "填充书", uint(2000+i), &shelf1.ID)
	}

	// 1号已满:选中2号
	found, err = shelfRepo.FindFirstAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, shelf2.ID, found.ID)

	// 全部填满:无可用书架
	for i := 0; i < shelving.MaxBooksPerShelf; i++ {
		seedBook(t, db, "填充书", uint(3000+i), &shelf2.ID)
	}
	_, err = shelfRepo.FindFirstAvailable(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCapacityExceeded))
}

func TestCountBooks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员E")
	_, _, shelf := seedHierarchy(t, db, librarian.ID)

	shelfRepo := NewShelfRepository(db)

	count, err := shelfRepo.CountBooks(ctx, shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	seedBook(t, db, "书1", 4001, &shelf.ID)
	seedBook(t, db, "书2", 4002, &shelf.ID)
	seedBook(t, db, "外借书", 4003, nil) // 不在架,不计数

	count, err = shelfRepo.CountBooks(ctx, shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHierarchyDeleteProtection(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "管理员F")
	hall, bookCase, shelf := seedHierarchy(t, db, librarian.ID)

	// 有下属书柜的大厅禁止删除
	err := NewHallRepository(db).Delete(ctx, hall.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))

	// 有下属书架的书柜禁止删除
	err = NewCaseRepository(db).Delete(ctx, bookCase.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))

	// 架上有图书的书架禁止删除
	seedBook(t, db, "在架书", 5001, &shelf.ID)
	err = NewShelfRepository(db).Delete(ctx, shelf.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))

	// 自底向上清理后可以删除
	require.NoError(t, db.Where("shelf_id = ?", shelf.ID).Delete(&BookModel{}).Error)
	require.NoError(t, NewShelfRepository(db).Delete(ctx, shelf.ID))
	require.NoError(t, NewCaseRepository(db).Delete(ctx, bookCase.ID))
	require.NoError(t, NewHallRepository(db).Delete(ctx, hall.ID))
}
