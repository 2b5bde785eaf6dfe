package engine

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// standardScaler centers each feature column and scales it to unit
// population variance. Zero-variance columns keep a scale of 1.
type standardScaler struct {
	mean  []float64
	scale []float64
}

func fitScaler(x *mat.Dense) standardScaler {
	_, cols := x.Dims()
	s := standardScaler{
		mean:  make([]float64, cols),
		scale: make([]float64, cols),
	}
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		s.mean[j] = mean
		s.scale[j] = std
		if std <= 1e-10*math.Max(1, math.Abs(mean)) {
			s.scale[j] = 1
		}
	}
	return s
}

func (s standardScaler) transform(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, x)
	return out
}

// linearModel is an ordinary least squares fit with intercept.
type linearModel struct {
	intercept float64
	coef      []float64
}

// fitLinear regresses y on the columns of x. Columns without variance carry
// no signal and get a zero coefficient; if the remaining system cannot be
// solved the model degrades to predicting the mean of y.
func fitLinear(x *mat.Dense, y []float64) linearModel {
	rows, cols := x.Dims()
	m := linearModel{coef: make([]float64, cols)}
	if rows == 0 {
		return m
	}

	yMean := stat.Mean(y, nil)
	m.intercept = yMean

	xMean := make([]float64, cols)
	var active []int
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		xMean[j] = stat.Mean(col, nil)
		if stat.PopVariance(col, nil) > 1e-12 {
			active = append(active, j)
		}
	}
	if len(active) == 0 || rows < len(active) {
		return m
	}

	a := mat.NewDense(rows, len(active), nil)
	for i := 0; i < rows; i++ {
		for k, j := range active {
			a.Set(i, k, x.At(i, j)-xMean[j])
		}
	}
	yc := make([]float64, rows)
	for i, v := range y {
		yc[i] = v - yMean
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, mat.NewVecDense(rows, yc)); err != nil {
		return m
	}

	for k, j := range active {
		m.coef[j] = beta.AtVec(k)
		m.intercept -= m.coef[j] * xMean[j]
	}
	return m
}

func (m linearModel) predict(x *mat.Dense) []float64 {
	rows, cols := x.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := m.intercept
		for j := 0; j < cols; j++ {
			v += m.coef[j] * x.At(i, j)
		}
		out[i] = v
	}
	return out
}
