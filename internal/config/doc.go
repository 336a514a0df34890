// SPDX-License-Identifier: Apache-2.0

// Package config assembles the immutable application configuration from
// environment variables, command-line flags, an optional JSON file, and
// built-in defaults, in that priority order.
//
// The result is a [StructuredConfig] constructed once at process start and
// injected into the codec, vendor client, store, and server constructors;
// core logic never performs ambient environment lookups.
package config
