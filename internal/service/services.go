// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/adapter"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
)

// Services bundles the business layer for the inbound transport.
type Services struct {
	FlowService   FlowService
	TokenService  TokenService
	RecordService RecordService
}

// NewServices wires the services onto the vendor gateway and the storages.
func NewServices(gateway adapter.VendorGateway, storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		FlowService:   NewFlowService(gateway, storages.UserRecords, cfg.Vendor, logger),
		TokenService:  NewTokenService(gateway, storages.UserRecords, cfg, logger),
		RecordService: NewRecordService(storages.UserRecords, logger),
	}
}
