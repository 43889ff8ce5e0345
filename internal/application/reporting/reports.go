package reporting

import (
	"context"
	"time"

	"github.com/xiebiao/bookhouse/internal/domain/reporting"
	"github.com/xiebiao/bookhouse/pkg/metrics"
	"github.com/xiebiao/bookhouse/pkg/tracing"
)

// ReportsUseCase 报表用例
// 设计说明:
// 1. 每个报表每次从当前数据现算,不缓存——结果随借还实时变化
// 2. 报表名作为低基数标签记录查询次数与耗时
type ReportsUseCase struct {
	queries reporting.Queries
}

// NewReportsUseCase 创建报表用例
func NewReportsUseCase(queries reporting.Queries) *ReportsUseCase {
	return &ReportsUseCase{queries: queries}
}

// instrument 记录报表查询指标
func instrument(report string, start time.Time) {
	metrics.IncCounterVec(metrics.ReportQueriesTotal, map[string]string{"report": report})
	metrics.ObserveHistogram(metrics.ReportQueryDuration, time.Since(start).Seconds())
}

// CountBooksByAuthor 统计作者名下的图书数
func (uc *ReportsUseCase) CountBooksByAuthor(ctx context.Context, authorFIO string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "CountBooksByAuthor")
	defer span.End()
	defer instrument("books_by_author", time.Now())
	return uc.queries.CountBooksByAuthor(ctx, authorFIO)
}

// TopTenBooks 借出次数最多的前10本书
func (uc *ReportsUseCase) TopTenBooks(ctx context.Context) ([]reporting.BookCheckoutCount, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "TopTenBooks")
	defer span.End()
	defer instrument("top_ten_books", time.Now())
	return uc.queries.TopTenBooks(ctx)
}

// CountBooksOnHandByReader 按读者分组统计未归还日志数
func (uc *ReportsUseCase) CountBooksOnHandByReader(ctx context.Context) ([]reporting.ReaderOnHandCount, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "CountBooksOnHandByReader")
	defer span.End()
	defer instrument("books_on_hand", time.Now())
	return uc.queries.CountBooksOnHandByReader(ctx)
}

// HallsWithCasesAndShelves 每个大厅的书柜/书架编号摘要
func (uc *ReportsUseCase) HallsWithCasesAndShelves(ctx context.Context) ([]reporting.HallSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "HallsWithCasesAndShelves")
	defer span.End()
	defer instrument("hall_summaries", time.Now())
	return uc.queries.HallsWithCasesAndShelves(ctx)
}

// PublicationsWithNeverTakenBooks 按出版类型列出从未被借出的图书
func (uc *ReportsUseCase) PublicationsWithNeverTakenBooks(ctx context.Context) ([]reporting.PublicationBooks, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "PublicationsWithNeverTakenBooks")
	defer span.End()
	defer instrument("never_taken_books", time.Now())
	return uc.queries.PublicationsWithNeverTakenBooks(ctx)
}

// ShelfHistoryByBook 每本书历史上归还落架过的全部书架ID
func (uc *ReportsUseCase) ShelfHistoryByBook(ctx context.Context) ([]reporting.BookShelfHistory, error) {
	ctx, span := tracing.StartSpan(ctx, "bookhouse", "ShelfHistoryByBook")
	defer span.End()
	defer instrument("shelf_history", time.Now())
	return uc.queries.ShelfHistoryByBook(ctx)
}
