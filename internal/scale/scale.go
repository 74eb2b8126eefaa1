// Package scale computes scaled ingredient amounts when a recipe's
// batch size changes. Scaling is a pure computation over data already
// loaded from storage; nothing here touches the database.
package scale

import (
	"math"

	"github.com/roach88/brewcode/internal/model"
)

// stepEpsilon keeps exact step multiples from rounding up an extra
// increment (25.0/5 steps of 5 L is 5 steps, not 6 when floating point
// noise pushes the quotient just past an integer).
const stepEpsilon = 1e-9

// ScaledIngredient is one ingredient line with its amount recomputed
// for the target batch size. The original line is carried along so the
// stage/order association is preserved.
type ScaledIngredient struct {
	Ingredient model.RecipeIngredient `json:"ingredient"`
	Amount     float64                `json:"amount"`
	Unit       string                 `json:"unit"`
}

// Amounts scales a list of ingredient lines from a base batch size to
// a target batch size, both in litres. The input list is not mutated;
// output order matches input order.
//
// Per-method behavior:
//   - linear: amount * (target / base)
//   - fixed:  unchanged
//   - step:   amount * ceil(target / stepSize), never below one step
func Amounts(baseL, targetL float64, lines []model.RecipeIngredient) ([]ScaledIngredient, error) {
	if baseL <= 0 {
		return nil, NewInvalidVolumeError("base", baseL)
	}
	if targetL <= 0 {
		return nil, NewInvalidVolumeError("target", targetL)
	}

	factor := targetL / baseL

	scaled := make([]ScaledIngredient, 0, len(lines))
	for _, line := range lines {
		amount, err := scaleOne(line, factor, targetL)
		if err != nil {
			return nil, err
		}
		scaled = append(scaled, ScaledIngredient{
			Ingredient: line,
			Amount:     amount,
			Unit:       line.Unit,
		})
	}

	return scaled, nil
}

func scaleOne(line model.RecipeIngredient, factor, targetL float64) (float64, error) {
	switch line.Scaling.Name {
	case model.MethodLinear:
		return line.Amount * factor, nil

	case model.MethodFixed:
		return line.Amount, nil

	case model.MethodStep:
		if line.Scaling.StepSizeL == nil {
			return 0, NewMissingStepSizeError(line.RecipeIngredientID, "step ingredient has no step size configured")
		}
		stepSize := *line.Scaling.StepSizeL
		if stepSize <= 0 {
			return 0, NewMissingStepSizeError(line.RecipeIngredientID, "step size must be positive")
		}
		steps := math.Ceil((targetL - stepEpsilon) / stepSize)
		if steps < 1 {
			steps = 1
		}
		return line.Amount * steps, nil

	default:
		return 0, NewUnsupportedMethodError(line.RecipeIngredientID, string(line.Scaling.Name))
	}
}
