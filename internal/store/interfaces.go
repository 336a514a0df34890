// SPDX-License-Identifier: Apache-2.0

// Package store implements persistence for fulfilled lounge orders and their
// verification tokens on top of database/sql, supporting both PostgreSQL
// (pgx) and SQLite backends behind a single repository interface.
package store

import (
	"context"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// UserRecordRepository persists the denormalized per-order records produced
// by the fulfillment pipeline together with their SMS verification tokens.
type UserRecordRepository interface {
	// Save upserts a full record keyed by its order number. An existing
	// row's verification token columns are preserved.
	Save(ctx context.Context, record models.UserRecord) error

	// FindByOrderNo returns the record for the given order number, or
	// [ErrRecordNotFound].
	FindByOrderNo(ctx context.Context, orderNo string) (models.UserRecord, error)

	// List returns all persisted records, most recently updated first.
	List(ctx context.Context) ([]models.UserRecord, error)

	// EnsureRecord inserts a minimal placeholder row for the given order
	// number if none exists yet. Existing rows are left untouched.
	EnsureRecord(ctx context.Context, orderNo, activityID string) error

	// SaveToken stores a verification token on the record whose order
	// number, H5 order number, or H5 order id matches orderKey. Returns
	// [ErrRecordNotFound] when no row matches.
	SaveToken(ctx context.Context, orderKey string, token models.VerificationToken) error

	// FindToken returns the verification token stored for orderKey,
	// matching the same three identifier columns as [SaveToken]. Returns
	// [ErrTokenNotFound] when the record has no token.
	FindToken(ctx context.Context, orderKey string) (models.VerificationToken, error)

	// ClearExpiredTokens removes every stored token whose expiry is at or
	// before now, returning the number of cleared rows.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
