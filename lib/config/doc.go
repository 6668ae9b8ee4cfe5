// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the safekey YAML configuration.
//
// Configuration comes from a single file named by the --config flag (via
// [LoadFile]) or the SAFEKEY_CONFIG environment variable (via [Load]).
// Without either, [Default] applies. There is no search path.
//
// The file may contain development and production sections that override
// base values when [Config].Environment matches. Production without an
// explicit section logs JSON.
//
// Only open.identity_file undergoes ${VAR} and ${VAR:-default}
// expansion. No other environment variables override config values.
//
//	environment: production
//	log:
//	  level: info
//	seal:
//	  recipients:
//	    - age1escrow...
//	  format: cbor
//	open:
//	  identity_file: ${HOME}/.config/safekey/identity.txt
package config
