// Package udkf is the root package of a UD-factorized Kalman filtering
// core: Extended and Unscented Kalman filters that carry their covariance
// as a pair of factors U (unit upper-triangular) and D (diagonal), such
// that P = U*diag(D)*U^T, and never materialize the full covariance
// matrix. See subpackages ud, kalman/kernel, kalman/ekf and kalman/ukf.
package udkf

import "strings"

// Status is an OR-able bitmap of outcome flags returned by every core
// operation. The InvArgN bits and StatusNumericalBreakdown mean the call
// failed and the estimator must be considered corrupted until
// re-initialized; StatusAnomaly/StatusGlitchSmall/StatusGlitchLarge are
// informational and accumulate across calls without aborting them.
type Status uint32

// StatusOK reports that an operation completed with no error and no
// informational flag raised.
const StatusOK Status = 0

const (
	// StatusInvArg1 through StatusInvArg11 flag which positional argument
	// of a call failed validation (missing buffer, bad dimension, ...).
	StatusInvArg1 Status = 1 << iota
	StatusInvArg2
	StatusInvArg3
	StatusInvArg4
	StatusInvArg5
	StatusInvArg6
	StatusInvArg7
	StatusInvArg8
	StatusInvArg9
	StatusInvArg10
	StatusInvArg11

	// StatusAnomaly reports that an adaptive chi-square divergence test
	// fired and the innovation covariance was inflated.
	StatusAnomaly
	// StatusGlitchSmall reports that a robust influence function's slope
	// dropped below 1-2*eps: the measurement was downweighted.
	StatusGlitchSmall
	// StatusGlitchLarge reports that a robust influence function's slope
	// dropped below eps: the measurement was effectively rejected.
	StatusGlitchLarge

	// StatusNumericalBreakdown reports a non-finite intermediate value, a
	// non-positive MWGS pivot, or a down-date that would leave D
	// non-positive. The instance must be considered corrupted.
	StatusNumericalBreakdown
)

const invArgMask = StatusInvArg1 | StatusInvArg2 | StatusInvArg3 | StatusInvArg4 |
	StatusInvArg5 | StatusInvArg6 | StatusInvArg7 | StatusInvArg8 |
	StatusInvArg9 | StatusInvArg10 | StatusInvArg11

// Has reports whether all bits of flag are set in s.
func (s Status) Has(flag Status) bool {
	return s&flag == flag
}

// IsErr reports whether s carries an argument-validation or
// numerical-breakdown flag: the operation failed and any state it
// touched must not be trusted.
func (s Status) IsErr() bool {
	return s&(invArgMask|StatusNumericalBreakdown) != 0
}

// Or accumulates t into s. Use this to OR-combine the status of a
// sequence of sub-operations within one top-level call.
func (s Status) Or(t Status) Status {
	return s | t
}

var statusNames = []struct {
	bit  Status
	name string
}{
	{StatusInvArg1, "inv_arg_1"},
	{StatusInvArg2, "inv_arg_2"},
	{StatusInvArg3, "inv_arg_3"},
	{StatusInvArg4, "inv_arg_4"},
	{StatusInvArg5, "inv_arg_5"},
	{StatusInvArg6, "inv_arg_6"},
	{StatusInvArg7, "inv_arg_7"},
	{StatusInvArg8, "inv_arg_8"},
	{StatusInvArg9, "inv_arg_9"},
	{StatusInvArg10, "inv_arg_10"},
	{StatusInvArg11, "inv_arg_11"},
	{StatusAnomaly, "anomaly"},
	{StatusGlitchSmall, "glitch_small"},
	{StatusGlitchLarge, "glitch_large"},
	{StatusNumericalBreakdown, "numerical_breakdown"},
}

// Error implements the error interface so a Status can be returned
// anywhere Go code expects one, and compared/wrapped the usual way.
func (s Status) Error() string {
	if s == StatusOK {
		return "ok"
	}
	var names []string
	for _, e := range statusNames {
		if s.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, "|")
}
