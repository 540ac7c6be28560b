// SPDX-License-Identifier: MIT

package backend

import "errors"

// ErrUnknownDevice indicates an unsupported or malformed device identifier.
var ErrUnknownDevice = errors.New("backend: unknown device")
