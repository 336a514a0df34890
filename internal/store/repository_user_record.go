// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// userRecordRepository is the database/sql implementation of
// [UserRecordRepository] against the "user_records" table. It works
// unmodified on both PostgreSQL and SQLite; driver differences are confined
// to the placeholder format supplied by the embedded [*DB].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRecordRepository struct {
	db     *DB
	logger *logger.Logger

	now func() time.Time
}

// NewUserRecordRepository constructs a [UserRecordRepository] backed by the
// provided database connection and logger.
func NewUserRecordRepository(db *DB, logger *logger.Logger) UserRecordRepository {
	logger.Debug().Msg("creating user record repository")
	return &userRecordRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Save upserts the record keyed by its order number. Last write wins for the
// descriptive columns; verification token columns are never touched here.
func (r *userRecordRepository) Save(ctx context.Context, record models.UserRecord) error {
	log := logger.FromContext(ctx)

	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now()
	}

	query, args, err := buildUpsertUserRecordQuery(r.db.placeholders(), record, updatedAt)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.Save").Msg("failed to build upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.exec(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.Save").
			Str("order_no", record.OrderNo).
			Msg("failed to upsert user record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrRecordNotSaved
	}

	return nil
}

// FindByOrderNo returns the record for orderNo or [ErrRecordNotFound].
func (r *userRecordRepository) FindByOrderNo(ctx context.Context, orderNo string) (models.UserRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserRecordQuery(r.db.placeholders(), orderNo)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.FindByOrderNo").Msg("failed to build select query")
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := scanUserRecord(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserRecord{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.FindByOrderNo").
			Str("order_no", orderNo).
			Msg("failed to scan user record row")
		return models.UserRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

// List returns all persisted records ordered by recency of update.
func (r *userRecordRepository) List(ctx context.Context) ([]models.UserRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAllUserRecordsQuery(r.db.placeholders())
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.List").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.List").Msg("failed to execute query for listing user records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.UserRecord, 0, 50)
	for rows.Next() {
		record, scanErr := scanUserRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRecordRepository.List").Msg("failed to scan user record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRecordRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// EnsureRecord inserts a placeholder row for orderNo, ignoring conflicts.
func (r *userRecordRepository) EnsureRecord(ctx context.Context, orderNo, activityID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertPlaceholderQuery(r.db.placeholders(), orderNo, activityID, r.now())
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.EnsureRecord").Msg("failed to build insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.exec(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.EnsureRecord").
			Str("order_no", orderNo).
			Msg("failed to insert placeholder record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SaveToken stores token on the first record matching orderKey by any of its
// order identifiers. Zero matched rows means no record exists yet; the caller
// decides whether to create a placeholder and retry.
func (r *userRecordRepository) SaveToken(ctx context.Context, orderKey string, token models.VerificationToken) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateTokenQuery(r.db.placeholders(), orderKey, token)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.SaveToken").Msg("failed to build update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.exec(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.SaveToken").
			Str("order_key", orderKey).
			Msg("failed to update verification token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// FindToken returns the verification token stored for orderKey.
func (r *userRecordRepository) FindToken(ctx context.Context, orderKey string) (models.VerificationToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectTokenQuery(r.db.placeholders(), orderKey)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.FindToken").Msg("failed to build select query")
		return models.VerificationToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		orderNo   string
		token     sql.NullString
		issuedAt  sql.NullTime
		expiresAt sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&orderNo, &token, &issuedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VerificationToken{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.FindToken").
			Str("order_key", orderKey).
			Msg("failed to scan verification token row")
		return models.VerificationToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if !token.Valid || token.String == "" {
		return models.VerificationToken{}, ErrTokenNotFound
	}

	return models.VerificationToken{
		OrderID:   orderNo,
		Token:     token.String,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// ClearExpiredTokens nulls out every stored token whose expiry is at or
// before now.
func (r *userRecordRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildClearExpiredTokensQuery(r.db.placeholders(), now)
	if err != nil {
		log.Err(err).Str("func", "*userRecordRepository.ClearExpiredTokens").Msg("failed to build update query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.exec(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRecordRepository.ClearExpiredTokens").
			Msg("failed to clear expired verification tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// exec runs a DML statement, retrying once when the backend reports a
// transient failure (connection loss, serialization failure, deadlock).
func (r *userRecordRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && r.db.Retryable(err) {
		result, err = r.db.ExecContext(ctx, query, args...)
	}
	return result, err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRecord(row rowScanner) (models.UserRecord, error) {
	var (
		record    models.UserRecord
		token     sql.NullString
		updatedAt sql.NullTime
		expiresAt sql.NullTime
	)

	err := row.Scan(
		&record.UserName,
		&record.BespeakCardType,
		&record.OrderNo,
		&record.ServerName,
		&record.Telephone,
		&record.H5OrderID,
		&record.ActivityID,
		&record.H5OrderNo,
		&record.OrderTime,
		&record.CouponSync,
		&record.LoungeCode,
		&record.RightsRemainPoint,
		&record.EndTime,
		&record.Status,
		&token,
		&updatedAt,
		&expiresAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return models.UserRecord{}, err
	}

	if token.Valid {
		record.SMSToken = &token.String
	}
	if updatedAt.Valid {
		record.SMSTokenUpdatedAt = &updatedAt.Time
	}
	if expiresAt.Valid {
		record.SMSTokenExpiresAt = &expiresAt.Time
	}

	return record, nil
}
