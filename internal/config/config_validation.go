// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"net/url"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the codec and store construction depend on. With the built-in
// defaults in place it only fails when an override actively breaks something.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Crypto.RequestSalt == "" {
		errs = append(errs, errNoRequestSalt)
	}
	if cfg.Crypto.ResponseSalt == "" {
		errs = append(errs, errNoResponseSalt)
	}
	if cfg.Crypto.SM2PublicKey == "" || cfg.Crypto.SM2PrivateKey == "" {
		errs = append(errs, errNoKeyMaterial)
	}

	if u, err := url.Parse(cfg.Vendor.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errBadVendorBaseURL)
	}

	if cfg.Tokens.TTL <= 0 {
		errs = append(errs, errBadTokenTTL)
	}

	switch cfg.Storage.DB.Driver {
	case "pgx", "sqlite3":
	default:
		errs = append(errs, errUnknownDBDriver)
	}

	return errors.Join(errs...)
}
