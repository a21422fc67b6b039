// Package weld checks continuity of audit statistics across adjacent rows.
// Each boundary between two rows gets three independent checks (kappa jump,
// U transport, Lipschitz bound); a check with a missing operand or an
// unresolved tolerance reports unknown rather than a verdict.
package weld

import "umcp/domain/core"

// ToleranceSpec is the raw configuration surface: every field optional.
// A nil pointer means the tolerance was never specified (symbolic).
type ToleranceSpec struct {
	EpsKappa   *float64 `json:"eps_kappa,omitempty"`
	EpsUAbs    *float64 `json:"eps_U_abs,omitempty"`
	EpsURel    *float64 `json:"eps_U_rel,omitempty"`
	TauMinHint *float64 `json:"tau_min_hint,omitempty"`
}

// Tolerances is the fully resolved-or-explicitly-absent tolerance set the
// boundary evaluator consumes. Never mutated after Resolve.
type Tolerances struct {
	EpsKappa   core.Scalar `json:"eps_kappa"`
	EpsUAbs    core.Scalar `json:"eps_U_abs"`
	EpsURel    core.Scalar `json:"eps_U_rel"`
	TauMinHint core.Scalar `json:"tau_min_hint"`
}

// Resolve maps the spec to Tolerances. Unspecified values stay Unknown;
// there is no silent default anywhere in this path.
func Resolve(spec ToleranceSpec) Tolerances {
	return Tolerances{
		EpsKappa:   fromPtr(spec.EpsKappa),
		EpsUAbs:    fromPtr(spec.EpsUAbs),
		EpsURel:    fromPtr(spec.EpsURel),
		TauMinHint: fromPtr(spec.TauMinHint),
	}
}

func fromPtr(p *float64) core.Scalar {
	if p == nil {
		return core.Unknown
	}
	return core.Known(*p)
}
