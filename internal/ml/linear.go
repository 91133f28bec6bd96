package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrSingularMatrix = errors.New("singular feature matrix")

// LinearModel is an ordinary least-squares fit: one coefficient per feature
// plus an intercept. No regularization and no hyperparameters, so the
// coefficients stay directly inspectable.
type LinearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// FitLinear solves the normal equations w = (XᵀX)⁻¹Xᵀy with an intercept
// column prepended. Degenerate inputs (no rows, collinear or too-few
// observations) surface as errors for the caller's per-target handling.
func FitLinear(x [][]float64, y []float64) (*LinearModel, error) {
	rows := len(x)
	if rows == 0 {
		return nil, errors.New("no rows with observed target")
	}
	cols := len(x[0])
	if cols == 0 {
		return nil, errors.New("no feature columns")
	}
	if len(y) != rows {
		return nil, fmt.Errorf("target length %d does not match %d rows", len(y), rows)
	}

	// Design matrix with a leading column of ones for the intercept.
	xa := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		xa.Set(i, 0, 1.0)
		for j := 0; j < cols; j++ {
			xa.Set(i, j+1, x[i][j])
		}
	}
	yv := mat.NewVecDense(rows, y)

	var xt mat.Dense
	xt.CloneFrom(xa.T())

	var xtx mat.Dense
	xtx.Mul(&xt, xa)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularMatrix, err)
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yv)

	w := mat.NewVecDense(cols+1, nil)
	w.MulVec(&xtxInv, &xty)

	model := &LinearModel{
		Intercept:    w.AtVec(0),
		Coefficients: make([]float64, cols),
	}
	for j := 0; j < cols; j++ {
		model.Coefficients[j] = w.AtVec(j + 1)
	}
	return model, nil
}

// Predict evaluates the model on a feature vector built in the exact column
// order the model was fit on.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}
	pred := m.Intercept
	for j, v := range features {
		pred += v * m.Coefficients[j]
	}
	return pred, nil
}
