package model

import "fmt"

// MethodName is the persisted tag for a scaling method.
type MethodName string

const (
	// MethodLinear scales the amount proportionally with batch size.
	MethodLinear MethodName = "linear"

	// MethodFixed keeps the amount unchanged regardless of batch size.
	MethodFixed MethodName = "fixed"

	// MethodStep scales in whole increments (e.g. one yeast packet per
	// 20 L), always rounding partial steps up.
	MethodStep MethodName = "step"
)

// ValidMethodNames enumerates the recognized persisted tags.
var ValidMethodNames = map[MethodName]bool{
	MethodLinear: true,
	MethodFixed:  true,
	MethodStep:   true,
}

// ScalingMethod is the closed scaling-method enum with its
// method-specific payload. Only step carries a parameter: StepSizeL is
// the batch-volume increment in litres that consumes one more unit of
// the base amount. StepSizeL is nil for linear/fixed and must be set
// (and positive) for step.
type ScalingMethod struct {
	Name      MethodName `json:"name"`
	StepSizeL *float64   `json:"stepSizeL,omitempty"`
}

// Linear returns the linear scaling method.
func Linear() ScalingMethod { return ScalingMethod{Name: MethodLinear} }

// Fixed returns the fixed scaling method.
func Fixed() ScalingMethod { return ScalingMethod{Name: MethodFixed} }

// Step returns the step scaling method with the given step size in
// litres. The step size is validated at scale time, not here, so a
// misconfigured row read from storage still surfaces a coded error
// instead of panicking during construction.
func Step(stepSizeL float64) ScalingMethod {
	return ScalingMethod{Name: MethodStep, StepSizeL: &stepSizeL}
}

// ParseMethod converts a persisted tag plus optional step size into a
// ScalingMethod. Unknown tags return an error; they are never silently
// defaulted.
func ParseMethod(name string, stepSizeL *float64) (ScalingMethod, error) {
	m := MethodName(name)
	if !ValidMethodNames[m] {
		return ScalingMethod{}, fmt.Errorf("unknown scaling method %q", name)
	}
	if m != MethodStep {
		return ScalingMethod{Name: m}, nil
	}
	return ScalingMethod{Name: m, StepSizeL: stepSizeL}, nil
}
