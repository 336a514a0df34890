// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

// Validation errors joined and returned by [StructuredConfig.validate].
var (
	errNoRequestSalt    = errors.New("request signing salt is not set")
	errNoResponseSalt   = errors.New("response signing salt is not set")
	errNoKeyMaterial    = errors.New("SM2 key pair is not set")
	errBadVendorBaseURL = errors.New("vendor base URL must be a valid absolute URL")
	errBadTokenTTL      = errors.New("verification token TTL must be positive")
	errUnknownDBDriver  = errors.New("database driver must be `pgx` or `sqlite3`")
)
