package circulation

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/book"
	"github.com/xiebiao/bookhouse/internal/domain/catalog"
	"github.com/xiebiao/bookhouse/internal/domain/circulation"
	"github.com/xiebiao/bookhouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookhouse/pkg/metrics"
	"github.com/xiebiao/bookhouse/pkg/tracing"
)

// CheckOutBookUseCase 图书借出用例
// 这是流转引擎的两个核心转换之一
// 涉及:事务处理、悲观锁并发控制、业务规则校验、仅追加日志
type CheckOutBookUseCase struct {
	bookRepo      book.Repository
	journalRepo   circulation.Repository
	readerRepo    catalog.ReaderRepository
	librarianRepo catalog.LibrarianRepository
	txManager     *mysql.TxManager
}

// NewCheckOutBookUseCase 创建借出用例
func NewCheckOutBookUseCase(
	bookRepo book.Repository,
	journalRepo circulation.Repository,
	readerRepo catalog.ReaderRepository,
	librarianRepo catalog.LibrarianRepository,
	txManager *mysql.TxManager,
) *CheckOutBookUseCase {
	return &CheckOutBookUseCase{
		bookRepo:      bookRepo,
		journalRepo:   journalRepo,
		readerRepo:    readerRepo,
		librarianRepo: librarianRepo,
		txManager:     txManager,
	}
}

// CheckOutBookRequest 借出请求DTO
type CheckOutBookRequest struct {
	BookID            uint // 图书ID
	ReaderID          uint // 读者ID
	LibrarianID       uint // 经办管理员ID
	OutsideTheLibrary bool // 外借计数口径标志(只参与上限计数,日志行恒记为外借)
}

// CheckOutBookResponse 借出响应DTO
type CheckOutBookResponse struct {
	JournalID    uint   `json:"journal_id"`
	BookID       uint   `json:"book_id"`
	BookName     string `json:"book_name"`
	ReaderID     uint   `json:"reader_id"`
	DateTimeMove string `json:"date_time_move"`
}

// Execute 执行借出用例
//
// 核心问题:重复借出
// 场景:一本在架图书,两个读者同时借
// 错误实现:
//  1. 查询图书 → 在架
//  2. 判断可借 → 可借
//  3. 置空书架引用、写日志
//     结果:两个请求都通过了步骤2,日志里出现两条未归还记录
//
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 校验在架状态与借阅上限
//  3. 置空书架引用(图书转为外借状态)
//  4. 追加借出日志
//  5. COMMIT释放锁
func (uc *CheckOutBookUseCase) Execute(ctx context.Context, req CheckOutBookRequest) (*CheckOutBookResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "CheckOutBook")
	defer span.End()

	start := time.Now()
	metrics.IncGauge(metrics.CirculationInProgress)
	defer metrics.DecGauge(metrics.CirculationInProgress)

	// 1. 校验读者与管理员存在(参照数据,无需进事务)
	if _, err := uc.readerRepo.FindByID(ctx, req.ReaderID); err != nil {
		return nil, err
	}
	if _, err := uc.librarianRepo.FindByID(ctx, req.LibrarianID); err != nil {
		return nil, err
	}

	var lockedBook *book.Book
	var entry *circulation.MoveBookJournal
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定图书行(悲观锁,防止并发重复借出)
		// ========================================
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤2:状态校验
		// ========================================
		// 书架引用为空 ⟺ 图书在读者手上,不可再借
		if b.IsOnLoan() {
			return circulation.ErrBookAlreadyOnLoan
		}

		// 借阅上限校验:同读者、同图书、同外借标志的未归还日志数
		open, err := uc.journalRepo.CountOpen(txCtx, req.ReaderID, req.BookID, req.OutsideTheLibrary)
		if err != nil {
			return err
		}
		if open > circulation.MaxOpenLoans {
			return circulation.ErrLoanLimitExceeded
		}

		// ========================================
		// 步骤3:图书转为外借状态(书架引用置空)
		// ========================================
		if err := uc.bookRepo.UpdateShelf(txCtx, b.ID, nil); err != nil {
			return err
		}

		// ========================================
		// 步骤4:追加借出日志(事务内,与状态变更同生共死)
		// 借出行恒记为外借,归还才能按外借条件关闭它
		// ========================================
		entry = circulation.NewCheckOutEntry(b.ID, req.LibrarianID, req.ReaderID)
		if err := uc.journalRepo.Append(txCtx, entry); err != nil {
			return err
		}

		lockedBook = b
		return nil
	})

	if err != nil {
		metrics.IncCounterVec(metrics.CirculationFailedTotal, map[string]string{
			"transition": "check_out",
			"reason":     failureReason(err),
		})
		return nil, err
	}

	metrics.IncCounter(metrics.CheckOutsTotal)
	metrics.ObserveHistogram(metrics.CirculationDuration, time.Since(start).Seconds())

	return &CheckOutBookResponse{
		JournalID:    entry.ID,
		BookID:       lockedBook.ID,
		BookName:     lockedBook.Name,
		ReaderID:     req.ReaderID,
		DateTimeMove: entry.DateTimeMove.Format("2006-01-02 15:04:05"),
	}, nil
}
