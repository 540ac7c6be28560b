// SPDX-License-Identifier: MIT

package dual

// panicWidthMismatch is raised when two tangent vectors of different widths meet.
const panicWidthMismatch = "dual: tangent width mismatch"

// panicSlotOutOfRange is raised by Var when the seed slot is outside [0, n).
const panicSlotOutOfRange = "dual: Var: slot out of range"
