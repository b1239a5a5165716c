// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import "errors"

var (
	// ErrEmptyCode is returned by Deploy when given zero-length bytecode.
	ErrEmptyCode = errors.New("contract bytecode is empty")

	// ErrNotFound is returned by Call and Get when no contract is
	// deployed at the requested address.
	ErrNotFound = errors.New("contract not found")
)
