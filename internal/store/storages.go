// SPDX-License-Identifier: Apache-2.0

package store

import "github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"

// Storages bundles every repository of the persistence layer.
type Storages struct {
	UserRecords UserRecordRepository
}

// NewStorages wires all repositories onto one database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRecords: NewUserRecordRepository(db, log),
	}
}
