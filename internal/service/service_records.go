// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

type recordService struct {
	records store.UserRecordRepository
	logger  *logger.Logger
}

// NewRecordService constructs the read-side service over persisted records.
func NewRecordService(records store.UserRecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		records: records,
		logger:  logger,
	}
}

func (s *recordService) GetRecord(ctx context.Context, orderNo string) (models.UserRecord, error) {
	if orderNo == "" {
		return models.UserRecord{}, ErrMissingOrderID
	}
	return s.records.FindByOrderNo(ctx, orderNo)
}

func (s *recordService) ListRecords(ctx context.Context) ([]models.UserRecord, error) {
	return s.records.List(ctx)
}
