package mysql

import (
	"context"

	"storefront-service/internal/pkg/dbctx"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) repository.TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
