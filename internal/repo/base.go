// Package repo holds the shared plumbing that every domain repository
// embeds. Repositories in this codebase are thin GORM wrappers; Base
// keeps the connection handling in one place so each repository only
// worries about its own queries.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by domain repositories to share a GORM handle.
// It works equally over the root connection or a transaction, which is
// how ledger writes rebind their repositories inside WithTx.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle scoped to ctx so cancellation and deadlines
// propagate into the driver. A nil ctx yields the unscoped handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
