package circulation

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/domain/shelving"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookhouse/pkg/metrics"
	"github.com/xiebiao/bookhouse/pkg/tracing"
)

// ReturnBookUseCase 图书归还用例
// 归还时由系统自动选架(首次适应),不由调用方指定书架
type ReturnBookUseCase struct {
	bookRepo      book.Repository
	shelfRepo     shelving.ShelfRepository
	journalRepo   circulation.Repository
	readerRepo    catalog.ReaderRepository
	librarianRepo catalog.LibrarianRepository
	txManager     *mysql.TxManager
}

// NewReturnBookUseCase 创建归还用例
func NewReturnBookUseCase(
	bookRepo book.Repository,
	shelfRepo shelving.ShelfRepository,
	journalRepo circulation.Repository,
	readerRepo catalog.ReaderRepository,
	librarianRepo catalog.LibrarianRepository,
	txManager *mysql.TxManager,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{
		bookRepo:      bookRepo,
		shelfRepo:     shelfRepo,
		journalRepo:   journalRepo,
		readerRepo:    readerRepo,
		librarianRepo: librarianRepo,
		txManager:     txManager,
	}
}

// ReturnBookRequest 归还请求DTO
type ReturnBookRequest struct {
	BookID      uint // 图书ID
	ReaderID    uint // 读者ID
	LibrarianID uint // 经办管理员ID
}

// ReturnBookResponse 归还响应DTO
type ReturnBookResponse struct {
	JournalID    uint   `json:"journal_id"`
	BookID       uint   `json:"book_id"`
	ShelfID      uint   `json:"shelf_id"`      // 自动分配的落架书架
	ClosedLoans  int64  `json:"closed_loans"`  // 被关闭的未归还日志数
	DateTimeMove string `json:"date_time_move"`
}

// Execute 执行归还用例
//
// 核心问题:书架超容
// 场景:书架还剩1个空位,两本书同时归还
// 错误实现:
//  1. 统计书架图书数 → 9本
//  2. 判断有空位 → 有
//  3. 落架
//     结果:两个请求都选中同一书架,架上变成11本(超出容量!)
//
// 正确实现:选架在锁内完成
//  1. SELECT FOR UPDATE 锁定书架行,并发归还在此串行
//  2. 按书架ID升序找第一个未满的书架(首次适应)
//  3. 关闭该读者该图书的全部未归还日志
//  4. 图书落架、追加归还日志
//  5. COMMIT释放锁
//
// 注意:归还不校验"图书确实在借"——重复归还只会把图书移到新书架
// 并追加一条日志,不会破坏日志的仅追加性质
func (uc *ReturnBookUseCase) Execute(ctx context.Context, req ReturnBookRequest) (*ReturnBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "ReturnBook")
	defer span.End()

	start := time.Now()
	metrics.IncGauge(metrics.CirculationInProgress)
	defer metrics.DecGauge(metrics.CirculationInProgress)

	// 1. 校验读者与管理员存在
	if _, err := uc.readerRepo.FindByID(ctx, req.ReaderID); err != nil {
		return nil, err
	}
	if _, err := uc.librarianRepo.FindByID(ctx, req.LibrarianID); err != nil {
		return nil, err
	}

	var entry *circulation.MoveBookJournal
	var shelf *shelving.BookShelf
	var closed int64
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定图书行
		// ========================================
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤2:首次适应选架(候选书架行加锁)
		// ========================================
		shelf, err = uc.shelfRepo.FindFirstAvailable(txCtx)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤3:关闭未归还日志
		// ========================================
		// 关闭(读者, 图书, 外借=true)的全部未归还行,对重复行幂等
		closed, err = uc.journalRepo.CloseOpenEntries(txCtx, req.ReaderID, req.BookID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤4:图书落架 + 追加归还日志
		// ========================================
		if err := uc.bookRepo.UpdateShelf(txCtx, b.ID, &shelf.ID); err != nil {
			return err
		}

		entry = circulation.NewReturnEntry(b.ID, shelf.ID, req.LibrarianID, req.ReaderID)
		return uc.journalRepo.Append(txCtx, entry)
	})

	if err != nil {
		metrics.IncCounterVec(metrics.CirculationFailedTotal, map[string]string{
			"transition": "return",
			"reason":     failureReason(err),
		})
		return nil, err
	}

	metrics.IncCounter(metrics.ReturnsTotal)
	metrics.ObserveHistogram(metrics.CirculationDuration, time.Since(start).Seconds())

	return &ReturnBookResponse{
		JournalID:    entry.ID,
		BookID:       req.BookID,
		ShelfID:      shelf.ID,
		ClosedLoans:  closed,
		DateTimeMove: entry.DateTimeMove.Format("2006-01-02 15:04:05"),
	}, nil
}
