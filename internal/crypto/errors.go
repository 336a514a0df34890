// SPDX-License-Identifier: Apache-2.0

package crypto

import "errors"

var (
	// ErrSignatureMismatch is returned when a decrypted vendor payload does
	// not reproduce its embedded signature under the response salt. It is
	// always fatal for the call that produced it and is never downgraded
	// or retried.
	ErrSignatureMismatch = errors.New("response signature verification failed")

	// ErrEmptyCiphertext is returned when an envelope carries no ciphertext
	// at all.
	ErrEmptyCiphertext = errors.New("empty ciphertext")
)
