package core

// Flag is the tri-state outcome of a continuity check. A check whose
// operands or tolerance are Unknown evaluates to FlagUnknown, never to a
// true/false verdict.
type Flag string

const (
	FlagPass    Flag = "pass"
	FlagFail    Flag = "fail"
	FlagUnknown Flag = "unknown"
)

// FlagFromBool maps a resolved comparison to pass/fail.
func FlagFromBool(ok bool) Flag {
	if ok {
		return FlagPass
	}
	return FlagFail
}

// FlagLE evaluates value <= limit as a Flag, FlagUnknown when either side
// is unresolved.
func FlagLE(value, limit Scalar) Flag {
	if !value.Known || !limit.Known {
		return FlagUnknown
	}
	return FlagFromBool(value.Value <= limit.Value)
}

// Resolved reports whether the flag carries a real verdict.
func (f Flag) Resolved() bool {
	return f == FlagPass || f == FlagFail
}

// Passed reports a definite pass.
func (f Flag) Passed() bool { return f == FlagPass }
