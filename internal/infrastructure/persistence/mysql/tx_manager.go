package mysql

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookhouse/pkg/errors"
)

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 锁冲突自动重试一次,重试仍失败时以瞬时错误上报调用方
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行,
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 锁定图书行
//	    b, err := bookRepo.LockByID(ctx, bookID)
//	    if err != nil {
//	        return err
//	    }
//	    // 2. 更新书架引用
//	    if err := bookRepo.UpdateShelf(ctx, bookID, nil); err != nil {
//	        return err // 自动回滚
//	    }
//	    // 3. 追加流转日志
//	    return journalRepo.Append(ctx, entry) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.run(ctx, fn)
	if err == nil || !isLockConflict(err) {
		return err
	}

	// 锁冲突自动重试一次
	err = m.run(ctx, fn)
	if err != nil && isLockConflict(err) {
		return apperrors.ErrTransient
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		// Repository的getDB会从context提取事务DB
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}
