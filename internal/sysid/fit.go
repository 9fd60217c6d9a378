// Package sysid fits linear models xdot = A x + B u to observed data by
// convex regression. The least-squares fit goes through a dense QR solve;
// the L1 and L-infinity fits are posed as linear programs and handed to
// the simplex solver. All three decompose row by row, since the residuals
// of output i depend only on row i of [A B].
package sysid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const lpTol = 1e-10

// Samples holds m paired observations: rows of X are states, rows of U are
// inputs, rows of Y are the observed state derivatives.
type Samples struct {
	X *mat.Dense
	U *mat.Dense
	Y *mat.Dense
}

// NewSamples validates the dimensions of a data set. U may be nil for an
// autonomous fit.
func NewSamples(x, u, y *mat.Dense) (*Samples, error) {
	m, n := x.Dims()
	my, ny := y.Dims()
	if my != m || ny != n {
		return nil, fmt.Errorf("sysid: X is %dx%d but Y is %dx%d", m, n, my, ny)
	}
	if u != nil {
		mu, _ := u.Dims()
		if mu != m {
			return nil, fmt.Errorf("sysid: X has %d samples but U has %d", m, mu)
		}
	}
	return &Samples{X: x, U: u, Y: y}, nil
}

func (s *Samples) dims() (m, n, p int) {
	m, n = s.X.Dims()
	if s.U != nil {
		_, p = s.U.Dims()
	}
	return m, n, p
}

// regressors stacks [X U] into the m x (n+p) design matrix.
func (s *Samples) regressors() *mat.Dense {
	m, n, p := s.dims()
	Z := mat.NewDense(m, n+p, nil)
	Z.Slice(0, m, 0, n).(*mat.Dense).Copy(s.X)
	if p > 0 {
		Z.Slice(0, m, n, n+p).(*mat.Dense).Copy(s.U)
	}
	return Z
}

// Fit is a recovered model together with its worst residual.
type Fit struct {
	A *mat.Dense
	B *mat.Dense
	// MaxResidual is max over samples and outputs of |A x + B u - y|.
	MaxResidual float64
}

// split carves the stacked (n+p) x n weight matrix back into A and B and
// computes the residual summary.
func (s *Samples) split(W *mat.Dense) *Fit {
	m, n, p := s.dims()
	A := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, j, W.At(j, i))
		}
	}
	var B *mat.Dense
	if p > 0 {
		B = mat.NewDense(n, p, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < p; j++ {
				B.Set(i, j, W.At(n+j, i))
			}
		}
	}

	var pred mat.Dense
	pred.Mul(s.regressors(), W)
	worst := 0.0
	for k := 0; k < m; k++ {
		for i := 0; i < n; i++ {
			r := pred.At(k, i) - s.Y.At(k, i)
			if r < 0 {
				r = -r
			}
			if r > worst {
				worst = r
			}
		}
	}
	return &Fit{A: A, B: B, MaxResidual: worst}
}

// LeastSquares minimizes the Frobenius norm of the residual matrix.
func LeastSquares(s *Samples) (*Fit, error) {
	m, n, p := s.dims()
	if m < n+p {
		return nil, fmt.Errorf("sysid: %d samples cannot determine %d parameters per output", m, n+p)
	}
	W := mat.NewDense(n+p, n, nil)
	if err := W.Solve(s.regressors(), s.Y); err != nil {
		return nil, fmt.Errorf("sysid: least squares solve: %w", err)
	}
	return s.split(W), nil
}

// LInfinity minimizes the largest absolute residual. Per output row i the
// program is
//
//	min t  s.t.  -t <= Z w_i - y_i <= t
//
// posed in standard form via split variables and slacks so the simplex
// solver starts from a feasible basis.
func LInfinity(s *Samples) (*Fit, error) {
	return s.fitLP(linfRow)
}

// L1 minimizes the sum of absolute residuals. Per output row the residual
// of each sample splits into nonnegative parts:
//
//	min sum(r+ + r-)  s.t.  Z w+ - Z w- + r+ - r- = y
//
// Outliers pull an L1 fit far less than a least-squares one, which is the
// point of offering it.
func L1(s *Samples) (*Fit, error) {
	return s.fitLP(l1Row)
}

// fitLP solves one LP per output row and reassembles the weight matrix.
func (s *Samples) fitLP(solveRow func(Z *mat.Dense, y []float64) ([]float64, error)) (*Fit, error) {
	m, n, p := s.dims()
	q := n + p
	Z := s.regressors()

	W := mat.NewDense(q, n, nil)
	y := make([]float64, m)
	for out := 0; out < n; out++ {
		mat.Col(y, out, s.Y)
		w, err := solveRow(Z, y)
		if err != nil {
			return nil, fmt.Errorf("sysid: simplex failed on output %d: %w", out, err)
		}
		for j := 0; j < q; j++ {
			W.Set(j, out, w[j])
		}
	}
	return s.split(W), nil
}

// l1Row builds the standard-form L1 program over the nonnegative variables
// [w+ w- r+ r-]. Each sample contributes one equality row, and the residual
// split variables give a trivially feasible starting basis.
func l1Row(Z *mat.Dense, y []float64) ([]float64, error) {
	m, q := Z.Dims()
	nv := 2*q + 2*m
	c := make([]float64, nv)
	for k := 0; k < m; k++ {
		c[2*q+k] = 1
		c[2*q+m+k] = 1
	}

	A := mat.NewDense(m, nv, nil)
	for k := 0; k < m; k++ {
		for j := 0; j < q; j++ {
			z := Z.At(k, j)
			A.Set(k, j, z)
			A.Set(k, q+j, -z)
		}
		A.Set(k, 2*q+k, 1)
		A.Set(k, 2*q+m+k, -1)
	}

	_, x, err := lp.Simplex(c, A, y, lpTol, nil)
	if err != nil {
		return nil, err
	}
	return recombine(x, q), nil
}

// linfRow builds the standard-form Chebyshev program over the nonnegative
// variables [w+ w- t s1 s2]: the pair of slacked rows per sample keeps
// Z w - y within [-t, t].
func linfRow(Z *mat.Dense, y []float64) ([]float64, error) {
	m, q := Z.Dims()
	nv := 2*q + 1 + 2*m
	c := make([]float64, nv)
	c[2*q] = 1

	A := mat.NewDense(2*m, nv, nil)
	b := make([]float64, 2*m)
	for k := 0; k < m; k++ {
		for j := 0; j < q; j++ {
			z := Z.At(k, j)
			A.Set(k, j, z)
			A.Set(k, q+j, -z)
			A.Set(m+k, j, -z)
			A.Set(m+k, q+j, z)
		}
		A.Set(k, 2*q, -1)
		A.Set(m+k, 2*q, -1)
		A.Set(k, 2*q+1+k, 1)
		A.Set(m+k, 2*q+1+m+k, 1)
		b[k] = y[k]
		b[m+k] = -y[k]
	}

	_, x, err := lp.Simplex(c, A, b, lpTol, nil)
	if err != nil {
		return nil, err
	}
	return recombine(x, q), nil
}

// recombine collapses the split variables back into signed weights.
func recombine(x []float64, q int) []float64 {
	w := make([]float64, q)
	for j := range w {
		w[j] = x[j] - x[q+j]
	}
	return w
}
