package sos

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/poly"
)

// Options tunes the region-of-attraction searches. Zero values fall back
// to defaults sized for the course plants.
type Options struct {
	// Samples is the number of level-set directions (line search) or
	// multiplier grid points (single shot).
	Samples int
	// RhoMax caps the bisection interval.
	RhoMax float64
	// Tol is the bisection termination width on rho.
	Tol float64
	// MaxIter bounds the bisection iterations.
	MaxIter int
	// Seed drives the direction sampler for state dimension >= 3.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.Samples <= 0 {
		o.Samples = 100
	}
	if o.RhoMax <= 0 {
		o.RhoMax = 100
	}
	if o.Tol <= 0 {
		o.Tol = 1e-6
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 200
	}
	return o
}

// LineSearchROA estimates the largest rho such that Vdot < 0 on the level
// set {V = rho}, for V = x^T P x and polynomial dynamics f. Feasibility of
// a given rho is tested by sampling directions d and checking Vdot at the
// level-set point x = d * sqrt(rho / d^T P d); rho is then maximized by
// bisection. Sampling makes the answer an outer check, not a proof, but on
// the course plants the sampled and certified estimates agree.
func LineSearchROA(P *mat.SymDense, f []*poly.Polynomial, opt Options) (float64, error) {
	opt = opt.withDefaults()
	n := P.SymmetricDim()
	if len(f) != n {
		return 0, fmt.Errorf("sos: dynamics dimension %d does not match P dimension %d", len(f), n)
	}

	V := poly.FromQuadratic(P)
	Vdot := poly.LieDerivative(V, f)

	dirs := directions(n, opt.Samples, opt.Seed)
	feasible := func(rho float64) bool {
		for _, d := range dirs {
			q := quadForm(P, d)
			if q <= 0 {
				return false // P not positive definite along d
			}
			s := math.Sqrt(rho / q)
			x := make([]float64, n)
			for i := range x {
				x[i] = s * d[i]
			}
			if Vdot.Eval(x) >= 0 {
				return false
			}
		}
		return true
	}

	return bisectRho(feasible, opt)
}

// SingleShotROA certifies rho via the S-procedure: it searches for a
// multiplier lambda(x) = c * V(x)^k such that
//
//	-Vdot(x) + lambda(x) * (V(x) - rho)
//
// is a sum of squares, which implies Vdot < 0 on {0 < V <= rho}. The
// multiplier degree k is fixed by degree matching and c is scanned over a
// grid, so only rho remains and bisection applies. The returned rho is
// backed by an explicit PSD Gram matrix.
func SingleShotROA(P *mat.SymDense, f []*poly.Polynomial, opt Options) (float64, error) {
	opt = opt.withDefaults()
	n := P.SymmetricDim()
	if len(f) != n {
		return 0, fmt.Errorf("sos: dynamics dimension %d does not match P dimension %d", len(f), n)
	}

	V := poly.FromQuadratic(P)
	Vdot := poly.LieDerivative(V, f)
	negVdot := Vdot.Scale(-1)

	// lambda = c * V^k with deg(lambda * V) >= deg(Vdot), k >= 1 so the
	// certificate has no constant term.
	k := (Vdot.Degree() - 2 + 1) / 2
	if k < 1 {
		k = 1
	}
	Vk := poly.Constant(n, 1)
	for i := 0; i < k; i++ {
		Vk = Vk.Mul(V)
	}

	qDeg := Vdot.Degree()
	if d := 2*k + 2; d > qDeg {
		qDeg = d
	}
	basis := MonomialBasis(n, 1, qDeg/2)

	feasible := func(rho float64) bool {
		for s := 1; s <= opt.Samples; s++ {
			c := float64(s) * 10.0 / float64(opt.Samples)
			lam := Vk.Scale(c)
			cert := negVdot.Add(lam.Mul(V.Sub(poly.Constant(n, rho))))
			if _, ok, err := IsSOS(cert, basis); err == nil && ok {
				return true
			}
		}
		return false
	}

	return bisectRho(feasible, opt)
}

// bisectRho grows an upper bound from a feasible seed, then bisects.
func bisectRho(feasible func(rho float64) bool, opt Options) (float64, error) {
	lo := 0.0
	rho := opt.Tol
	if !feasible(rho) {
		return 0, fmt.Errorf("sos: level set not certifiable at rho=%g; V may not be a local Lyapunov function", rho)
	}
	for feasible(rho) && rho < opt.RhoMax {
		lo = rho
		rho *= 2
	}
	if rho >= opt.RhoMax && feasible(opt.RhoMax) {
		return opt.RhoMax, nil
	}
	hi := rho
	for i := 0; i < opt.MaxIter && hi-lo > opt.Tol; i++ {
		mid := 0.5 * (lo + hi)
		if feasible(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// directions returns deterministic unit directions in dimension 1 and 2 and
// seeded random ones above that.
func directions(n, samples int, seed int64) [][]float64 {
	switch n {
	case 1:
		return [][]float64{{1}, {-1}}
	case 2:
		dirs := make([][]float64, samples)
		for i := range dirs {
			a := 2 * math.Pi * float64(i) / float64(samples)
			dirs[i] = []float64{math.Cos(a), math.Sin(a)}
		}
		return dirs
	default:
		rng := rand.New(rand.NewSource(seed))
		dirs := make([][]float64, samples)
		for i := range dirs {
			d := make([]float64, n)
			for {
				norm := 0.0
				for j := range d {
					d[j] = rng.NormFloat64()
					norm += d[j] * d[j]
				}
				if norm > 1e-12 {
					norm = math.Sqrt(norm)
					for j := range d {
						d[j] /= norm
					}
					break
				}
			}
			dirs[i] = d
		}
		return dirs
	}
}

func quadForm(P *mat.SymDense, d []float64) float64 {
	n := len(d)
	q := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			q += d[i] * P.At(i, j) * d[j]
		}
	}
	return q
}
