package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

var fixedNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newTestUserRecordRepo(t *testing.T, driver string) (*userRecordRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRecordRepository{
		db:     &DB{DB: db, driver: driver, logger: l},
		logger: l,
		now:    func() time.Time { return fixedNow },
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows(userRecordColumns)
}

func addRecordRow(rows *sqlmock.Rows, orderNo string, token any) *sqlmock.Rows {
	return rows.AddRow(
		"Zhang Wei", "VISA", orderNo, "T2 Lounge", "13800000000",
		"H5ID-1", "5476", "H5NO-1", "2026-02-10 11:00:00", "1",
		"LNG-1", "3", "2026-12-31", "1",
		token, nil, nil, fixedNow,
	)
}

func TestSave_InsertsNewRecord(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	record := models.UserRecord{
		UserName:   "Zhang Wei",
		OrderNo:    "NO-1",
		ServerName: "T2 Lounge",
		ActivityID: "5476",
	}

	mock.ExpectExec("INSERT INTO user_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSave_ZeroRowsAffected(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), models.UserRecord{OrderNo: "NO-1"})
	if !errors.Is(err, ErrRecordNotSaved) {
		t.Fatalf("expected ErrRecordNotSaved, got %v", err)
	}
}

func TestSave_RetriesOnRetryablePostgresError(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverPostgres)
	defer db.Close()
	repo.db.errorClassificator = NewPostgresErrorClassifier()

	mock.ExpectExec("INSERT INTO user_records").
		WillReturnError(pgError(pgerrcode.DeadlockDetected))
	mock.ExpectExec("INSERT INTO user_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), models.UserRecord{OrderNo: "NO-1"}); err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSave_NonRetryableErrorIsNotRetried(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverPostgres)
	defer db.Close()
	repo.db.errorClassificator = NewPostgresErrorClassifier()

	mock.ExpectExec("INSERT INTO user_records").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.Save(context.Background(), models.UserRecord{OrderNo: "NO-1"})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByOrderNo_Found(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM user_records").
		WithArgs("NO-1").
		WillReturnRows(addRecordRow(recordRows(), "NO-1", "tok-1"))

	record, err := repo.FindByOrderNo(context.Background(), "NO-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.OrderNo != "NO-1" {
		t.Errorf("expected order no NO-1, got %q", record.OrderNo)
	}
	if record.SMSToken == nil || *record.SMSToken != "tok-1" {
		t.Errorf("expected token tok-1, got %v", record.SMSToken)
	}
}

func TestFindByOrderNo_NullTokenColumns(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM user_records").
		WithArgs("NO-1").
		WillReturnRows(addRecordRow(recordRows(), "NO-1", nil))

	record, err := repo.FindByOrderNo(context.Background(), "NO-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.SMSToken != nil {
		t.Errorf("expected nil token, got %q", *record.SMSToken)
	}
}

func TestFindByOrderNo_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM user_records").
		WithArgs("missing").
		WillReturnRows(recordRows())

	_, err := repo.FindByOrderNo(context.Background(), "missing")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestList_ReturnsAllRecords(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	rows := addRecordRow(recordRows(), "NO-1", nil)
	rows = addRecordRow(rows, "NO-2", "tok-2")

	mock.ExpectQuery("SELECT (.+) FROM user_records").
		WillReturnRows(rows)

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].OrderNo != "NO-2" {
		t.Errorf("expected NO-2, got %q", records[1].OrderNo)
	}
}

func TestSaveToken_UpdatesMatchingRecord(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	token := models.VerificationToken{
		Token:     "tok-1",
		IssuedAt:  fixedNow,
		ExpiresAt: fixedNow.Add(5 * time.Minute),
	}

	mock.ExpectExec("UPDATE user_records").
		WithArgs(token.Token, token.IssuedAt, token.ExpiresAt, token.IssuedAt, "KEY-1", "KEY-1", "KEY-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveToken(context.Background(), "KEY-1", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveToken_NoMatchingRecord(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE user_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveToken(context.Background(), "KEY-1", models.VerificationToken{Token: "tok"})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEnsureRecord_InsertsPlaceholder(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_records").
		WithArgs(models.DefaultUserName, models.DefaultServerName, "NO-1", "5476", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.EnsureRecord(context.Background(), "NO-1", "5476"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindToken_Found(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	expires := fixedNow.Add(5 * time.Minute)
	rows := sqlmock.
		NewRows([]string{"order_no", "sms_token", "sms_token_updated_at", "sms_token_expires_at"}).
		AddRow("NO-1", "tok-1", fixedNow, expires)

	mock.ExpectQuery("SELECT order_no, sms_token").
		WithArgs("KEY-1", "KEY-1", "KEY-1").
		WillReturnRows(rows)

	token, err := repo.FindToken(context.Background(), "KEY-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Token != "tok-1" {
		t.Errorf("expected tok-1, got %q", token.Token)
	}
	if !token.ExpiresAt.Equal(expires) {
		t.Errorf("expected expiry %v, got %v", expires, token.ExpiresAt)
	}
	if token.OrderID != "NO-1" {
		t.Errorf("expected order NO-1, got %q", token.OrderID)
	}
}

func TestFindToken_RecordWithoutToken(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"order_no", "sms_token", "sms_token_updated_at", "sms_token_expires_at"}).
		AddRow("NO-1", nil, nil, nil)

	mock.ExpectQuery("SELECT order_no, sms_token").
		WillReturnRows(rows)

	_, err := repo.FindToken(context.Background(), "KEY-1")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestFindToken_NoRecord(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectQuery("SELECT order_no, sms_token").
		WillReturnRows(sqlmock.NewRows([]string{"order_no", "sms_token", "sms_token_updated_at", "sms_token_expires_at"}))

	_, err := repo.FindToken(context.Background(), "KEY-1")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestClearExpiredTokens_ReturnsClearedCount(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE user_records").
		WithArgs(nil, nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	cleared, err := repo.ClearExpiredTokens(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared != 3 {
		t.Errorf("expected 3 cleared tokens, got %d", cleared)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClearExpiredTokens_ExecError(t *testing.T) {
	repo, mock, db := newTestUserRecordRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("UPDATE user_records").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.ClearExpiredTokens(context.Background(), fixedNow)
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}
