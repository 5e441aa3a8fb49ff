// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package stdlib embeds the goul standard prelude.
package stdlib

import _ "embed"

// Prelude defines the helper functions available to every script unless the
// host disables the standard library.
//
//go:embed prelude.goul
var Prelude string
