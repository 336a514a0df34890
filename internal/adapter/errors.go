// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"errors"
	"fmt"
)

// ErrUnexpectedResponseShape is returned when the vendor responds with a body
// that is neither an envelope nor a plain JSON object.
var ErrUnexpectedResponseShape = errors.New("unexpected vendor response shape")

// TransportError wraps a network-level failure talking to the vendor:
// connection errors, timeouts, and non-2xx HTTP statuses. It is distinct from
// protocol verification failures, which propagate the codec's sentinel.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("vendor call %s: http %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("vendor call %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
