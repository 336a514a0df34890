package store

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

func Test_buildUpsertUserRecordQuery_SQLContainsParts(t *testing.T) {
	record := models.UserRecord{OrderNo: "NO-1", UserName: "Zhang Wei", ActivityID: "5476"}
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	query, args, err := buildUpsertUserRecordQuery(sq.Dollar, record, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into user_records")
	require.Contains(t, q, "on conflict (order_no) do update set")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")

	// 14 descriptive columns plus updated_at
	require.Len(t, args, 15)
	assert.Equal(t, "Zhang Wei", args[0])
	assert.Equal(t, now, args[14])
}

func Test_buildUpsertUserRecordQuery_NeverTouchesTokenColumns(t *testing.T) {
	query, _, err := buildUpsertUserRecordQuery(sq.Question, models.UserRecord{OrderNo: "NO-1"}, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, strings.ToLower(query), "sms_token")
}

func Test_buildUpsertUserRecordQuery_SQLitePlaceholders(t *testing.T) {
	query, _, err := buildUpsertUserRecordQuery(sq.Question, models.UserRecord{OrderNo: "NO-1"}, time.Now())
	require.NoError(t, err)

	assert.Contains(t, query, "?")
	assert.NotContains(t, query, "$1")
}

func Test_buildInsertPlaceholderQuery(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	query, args, err := buildInsertPlaceholderQuery(sq.Question, "NO-1", "5476", now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into user_records")
	require.Contains(t, q, "on conflict (order_no) do nothing")

	require.Len(t, args, 5)
	assert.Equal(t, models.DefaultUserName, args[0])
	assert.Equal(t, models.DefaultServerName, args[1])
	assert.Equal(t, "NO-1", args[2])
	assert.Equal(t, "5476", args[3])
}

func Test_buildSelectUserRecordQuery_SelectsAllExpectedColumns(t *testing.T) {
	query, args, err := buildSelectUserRecordQuery(sq.Dollar, "NO-1")
	require.NoError(t, err)

	q := strings.ToLower(query)
	for _, col := range userRecordColumns {
		require.Contains(t, q, col)
	}
	require.Contains(t, q, "where order_no = $1")

	require.Len(t, args, 1)
	assert.Equal(t, "NO-1", args[0])
}

func Test_buildSelectAllUserRecordsQuery_OrdersByRecency(t *testing.T) {
	query, args, err := buildSelectAllUserRecordsQuery(sq.Question)
	require.NoError(t, err)

	assert.Contains(t, strings.ToLower(query), "order by updated_at desc")
	assert.Empty(t, args)
}

func Test_buildUpdateTokenQuery_MatchesAllOrderIdentifiers(t *testing.T) {
	token := models.VerificationToken{
		Token:     "tok-1",
		IssuedAt:  time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 2, 10, 12, 5, 0, 0, time.UTC),
	}

	query, args, err := buildUpdateTokenQuery(sq.Dollar, "KEY-1", token)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update user_records set")
	require.Contains(t, q, "sms_token")
	require.Contains(t, q, "sms_token_updated_at")
	require.Contains(t, q, "sms_token_expires_at")
	require.Contains(t, q, "h5_order_no = $5")
	require.Contains(t, q, "order_no = $6")
	require.Contains(t, q, "h5_order_id = $7")
	require.Contains(t, q, " or ")

	// token, issued, expires, updated_at, then the key three times
	require.Len(t, args, 7)
	assert.Equal(t, "tok-1", args[0])
	assert.Equal(t, "KEY-1", args[4])
	assert.Equal(t, "KEY-1", args[5])
	assert.Equal(t, "KEY-1", args[6])
}

func Test_buildSelectTokenQuery(t *testing.T) {
	query, args, err := buildSelectTokenQuery(sq.Question, "KEY-1")
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "select order_no, sms_token, sms_token_updated_at, sms_token_expires_at")
	require.Contains(t, q, "from user_records")
	require.Contains(t, q, "h5_order_no = ?")

	require.Len(t, args, 3)
	for _, arg := range args {
		assert.Equal(t, "KEY-1", arg)
	}
}

func Test_buildClearExpiredTokensQuery(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	query, args, err := buildClearExpiredTokensQuery(sq.Question, now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "update user_records")
	require.Contains(t, q, "sms_token = ?")
	require.Contains(t, q, "sms_token_expires_at = ?")
	require.Contains(t, q, "sms_token is not null")
	require.Contains(t, q, "sms_token_expires_at <= ?")

	// two nulled columns, then the expiry cutoff
	require.Len(t, args, 3)
	assert.Nil(t, args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, now, args[2])
}
