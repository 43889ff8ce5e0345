package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

func TestLibrarianFIOUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewLibrarianRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &catalog.Librarian{FIO: "Иванов И.И."}))

	// 同名管理员第二次录入必须失败
	err := repo.Create(ctx, &catalog.Librarian{FIO: "Иванов И.И."})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUniquenessViolation))
}

func TestLibrarianFindOrCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewLibrarianRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "Петров П.П.")
	require.NoError(t, err)

	// 第二次按同名查找必须复用已有行
	second, err := repo.FindOrCreate(ctx, "Петров П.П.")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAuthorFindOrCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuthorRepository(db)
	ctx := context.Background()

	a1, err := repo.FindOrCreate(ctx, "Пушкин А.С.")
	require.NoError(t, err)
	a2, err := repo.FindOrCreate(ctx, "Пушкин А.С.")
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)

	// 不同姓名创建新行
	a3, err := repo.FindOrCreate(ctx, "Гоголь Н.В.")
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID, a3.ID)
}

func TestAuthorDeleteProtected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	author := seedAuthor(t, db, "Толстой Л.Н.")
	seedBook(t, db, "Война и мир", 1001, nil, *author)

	// 被图书引用的作者禁止删除
	err := NewAuthorRepository(db).Delete(ctx, author.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))
}

func TestPublicationTypeDeleteSetsNull(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ptRepo := NewPublicationTypeRepository(db)
	pt := &catalog.PublicationType{Name: "Книга"}
	require.NoError(t, ptRepo.Create(ctx, pt))

	b := seedBook(t, db, "Мёртвые души", 1002, nil)
	require.NoError(t, db.Model(&BookModel{}).Where("id = ?", b.ID).
		Update("publication_type_id", pt.ID).Error)

	// 删除出版类型:图书保留,类型引用置空
	require.NoError(t, ptRepo.Delete(ctx, pt.ID))

	found, err := NewBookRepository(db).FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, found.PublicationTypeID)
}

func TestLibrarianDeleteProtectedByJournal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	librarian := seedLibrarian(t, db, "Сидоров С.С.")
	reader := seedReader(t, db, "Читатель")
	b := seedBook(t, db, "Ревизор", 1003, nil)
	seedJournal(t, db, circulation.NewCheckOutEntry(b.ID, librarian.ID, reader.ID))

	err := NewLibrarianRepository(db).Delete(ctx, librarian.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))

	// 读者同样受流转日志保护
	err = NewReaderRepository(db).Delete(ctx, reader.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReferentialIntegrity))
}

func TestReaderDeleteUnreferenced(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	reader := seedReader(t, db, "Новый читатель")
	require.NoError(t, NewReaderRepository(db).Delete(ctx, reader.ID))

	_, err := NewReaderRepository(db).FindByID(ctx, reader.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReaderNotFound))
}

func TestAuthorListFilterAndOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuthorRepository(db)
	ctx := context.Background()

	seedAuthor(t, db, "Алексеев")
	seedAuthor(t, db, "Борисов")
	seedAuthor(t, db, "Васильев")

	// 默认按姓名升序
	authors, total, err := repo.List(ctx, catalog.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, authors, 3)
	assert.Equal(t, "Алексеев", authors[0].FIO)

	// 精确过滤
	authors, total, err = repo.List(ctx, catalog.ListParams{FIO: "Борисов", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, authors, 1)
	assert.Equal(t, "Борисов", authors[0].FIO)
}
