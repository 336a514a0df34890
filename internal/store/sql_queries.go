// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

const userRecordsTable = "user_records"

// userRecordColumns is the full column list, in scan order.
var userRecordColumns = []string{
	"user_name",
	"bespeak_card_type",
	"order_no",
	"server_name",
	"telephone",
	"h5_order_id",
	"activity_id",
	"h5_order_no",
	"order_time",
	"coupon_sync",
	"lounge_code",
	"rights_remain_point",
	"end_time",
	"status",
	"sms_token",
	"sms_token_updated_at",
	"sms_token_expires_at",
	"updated_at",
}

// orderKeyPredicate matches a record by any of its three order identifiers.
// The vendor is inconsistent about which one a given endpoint returns, so
// token reads and writes accept all of them.
func orderKeyPredicate(orderKey string) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"h5_order_no": orderKey},
		sq.Eq{"order_no": orderKey},
		sq.Eq{"h5_order_id": orderKey},
	}
}

// buildUpsertUserRecordQuery builds the INSERT ... ON CONFLICT upsert for a
// full pipeline record. The token columns are deliberately absent from both
// the column list and the update set so an upsert never clobbers a live
// verification token.
func buildUpsertUserRecordQuery(pf sq.PlaceholderFormat, record models.UserRecord, now time.Time) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Insert(userRecordsTable).
		Columns(
			"user_name",
			"bespeak_card_type",
			"order_no",
			"server_name",
			"telephone",
			"h5_order_id",
			"activity_id",
			"h5_order_no",
			"order_time",
			"coupon_sync",
			"lounge_code",
			"rights_remain_point",
			"end_time",
			"status",
			"updated_at",
		).
		Values(
			record.UserName,
			record.BespeakCardType,
			record.OrderNo,
			record.ServerName,
			record.Telephone,
			record.H5OrderID,
			record.ActivityID,
			record.H5OrderNo,
			record.OrderTime,
			record.CouponSync,
			record.LoungeCode,
			record.RightsRemainPoint,
			record.EndTime,
			record.Status,
			now,
		).
		Suffix(`ON CONFLICT (order_no) DO UPDATE SET
			user_name = excluded.user_name,
			bespeak_card_type = excluded.bespeak_card_type,
			server_name = excluded.server_name,
			telephone = excluded.telephone,
			h5_order_id = excluded.h5_order_id,
			activity_id = excluded.activity_id,
			h5_order_no = excluded.h5_order_no,
			order_time = excluded.order_time,
			coupon_sync = excluded.coupon_sync,
			lounge_code = excluded.lounge_code,
			rights_remain_point = excluded.rights_remain_point,
			end_time = excluded.end_time,
			status = excluded.status,
			updated_at = excluded.updated_at`).
		ToSql()
}

// buildInsertPlaceholderQuery builds the minimal INSERT used when a token
// arrives for an order the pipeline has not persisted yet. Conflicts are
// ignored so racing with a full pipeline save is harmless.
func buildInsertPlaceholderQuery(pf sq.PlaceholderFormat, orderNo, activityID string, now time.Time) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Insert(userRecordsTable).
		Columns("user_name", "server_name", "order_no", "activity_id", "updated_at").
		Values(models.DefaultUserName, models.DefaultServerName, orderNo, activityID, now).
		Suffix(`ON CONFLICT (order_no) DO NOTHING`).
		ToSql()
}

func buildSelectUserRecordQuery(pf sq.PlaceholderFormat, orderNo string) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Select(userRecordColumns...).
		From(userRecordsTable).
		Where(sq.Eq{"order_no": orderNo}).
		ToSql()
}

func buildSelectAllUserRecordsQuery(pf sq.PlaceholderFormat) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Select(userRecordColumns...).
		From(userRecordsTable).
		OrderBy("updated_at DESC").
		ToSql()
}

func buildUpdateTokenQuery(pf sq.PlaceholderFormat, orderKey string, token models.VerificationToken) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Update(userRecordsTable).
		Set("sms_token", token.Token).
		Set("sms_token_updated_at", token.IssuedAt).
		Set("sms_token_expires_at", token.ExpiresAt).
		Set("updated_at", token.IssuedAt).
		Where(orderKeyPredicate(orderKey)).
		ToSql()
}

func buildSelectTokenQuery(pf sq.PlaceholderFormat, orderKey string) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Select("order_no", "sms_token", "sms_token_updated_at", "sms_token_expires_at").
		From(userRecordsTable).
		Where(orderKeyPredicate(orderKey)).
		ToSql()
}

// buildClearExpiredTokensQuery nulls out every token whose expiry is at or
// before now. sms_token_updated_at is kept as an audit trail of the last
// successful verification.
func buildClearExpiredTokensQuery(pf sq.PlaceholderFormat, now time.Time) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(pf).
		Update(userRecordsTable).
		Set("sms_token", nil).
		Set("sms_token_expires_at", nil).
		Where(sq.NotEq{"sms_token": nil}).
		Where(sq.LtOrEq{"sms_token_expires_at": now}).
		ToSql()
}
