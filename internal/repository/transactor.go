package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor 开启事务，回调中的 tx 交给各 Repo 的 WithTx 使用
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type TransactorImpl struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &TransactorImpl{db: db}
}

func (s *TransactorImpl) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}
