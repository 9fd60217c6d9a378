// Package poly implements the small multivariate polynomials the Lyapunov
// certificate machinery works with. Polynomials are stored as sparse
// monomial-to-coefficient maps over a fixed variable count; operations
// return new polynomials and never mutate their receivers.
package poly

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MaxVars bounds the number of variables; plant state dimensions here are
// at most 4, so 8 leaves headroom.
const MaxVars = 8

// Exponents is a monomial exponent vector, one entry per variable.
type Exponents [MaxVars]uint8

// Degree returns the total degree of the monomial.
func (e Exponents) Degree() int {
	d := 0
	for _, v := range e {
		d += int(v)
	}
	return d
}

// Add returns the exponent vector of the monomial product.
func (e Exponents) Add(other Exponents) Exponents {
	var out Exponents
	for i := range e {
		out[i] = e[i] + other[i]
	}
	return out
}

// Polynomial is a real polynomial in n variables.
type Polynomial struct {
	n     int
	terms map[Exponents]float64
}

func New(nvars int) *Polynomial {
	if nvars < 0 || nvars > MaxVars {
		panic(fmt.Sprintf("poly: nvars must be in [0,%d], got %d", MaxVars, nvars))
	}
	return &Polynomial{n: nvars, terms: make(map[Exponents]float64)}
}

// Constant returns the constant polynomial c in nvars variables.
func Constant(nvars int, c float64) *Polynomial {
	p := New(nvars)
	if c != 0 {
		p.terms[Exponents{}] = c
	}
	return p
}

// Variable returns the polynomial x_i.
func Variable(nvars, i int) *Polynomial {
	if i < 0 || i >= nvars {
		panic(fmt.Sprintf("poly: variable index %d out of range [0,%d)", i, nvars))
	}
	p := New(nvars)
	var e Exponents
	e[i] = 1
	p.terms[e] = 1
	return p
}

// NumVars returns the variable count.
func (p *Polynomial) NumVars() int { return p.n }

// AddTerm adds coeff * x^exps to the polynomial in place and returns it.
// Used by builders; all algebraic operations are non-mutating.
func (p *Polynomial) AddTerm(exps []int, coeff float64) *Polynomial {
	if len(exps) != p.n {
		panic(fmt.Sprintf("poly: expected %d exponents, got %d", p.n, len(exps)))
	}
	var e Exponents
	for i, x := range exps {
		if x < 0 {
			panic("poly: negative exponent")
		}
		e[i] = uint8(x)
	}
	p.terms[e] += coeff
	if p.terms[e] == 0 {
		delete(p.terms, e)
	}
	return p
}

// Coeff returns the coefficient of x^exps.
func (p *Polynomial) Coeff(exps []int) float64 {
	var e Exponents
	for i, x := range exps {
		e[i] = uint8(x)
	}
	return p.terms[e]
}

// Degree returns the total degree, or 0 for the zero polynomial.
func (p *Polynomial) Degree() int {
	d := 0
	for e := range p.terms {
		if ed := e.Degree(); ed > d {
			d = ed
		}
	}
	return d
}

// IsZero reports whether all coefficients vanish (within tol).
func (p *Polynomial) IsZero(tol float64) bool {
	for _, c := range p.terms {
		if math.Abs(c) > tol {
			return false
		}
	}
	return true
}

func (p *Polynomial) clone() *Polynomial {
	q := New(p.n)
	for e, c := range p.terms {
		q.terms[e] = c
	}
	return q
}

func (p *Polynomial) Add(other *Polynomial) *Polynomial {
	q := p.clone()
	for e, c := range other.terms {
		q.terms[e] += c
		if q.terms[e] == 0 {
			delete(q.terms, e)
		}
	}
	return q
}

func (p *Polynomial) Sub(other *Polynomial) *Polynomial {
	return p.Add(other.Scale(-1))
}

func (p *Polynomial) Scale(s float64) *Polynomial {
	q := New(p.n)
	if s == 0 {
		return q
	}
	for e, c := range p.terms {
		q.terms[e] = c * s
	}
	return q
}

func (p *Polynomial) Mul(other *Polynomial) *Polynomial {
	q := New(p.n)
	for e1, c1 := range p.terms {
		for e2, c2 := range other.terms {
			e := e1.Add(e2)
			q.terms[e] += c1 * c2
			if q.terms[e] == 0 {
				delete(q.terms, e)
			}
		}
	}
	return q
}

// Eval evaluates the polynomial at x.
func (p *Polynomial) Eval(x []float64) float64 {
	sum := 0.0
	for e, c := range p.terms {
		term := c
		for i := 0; i < p.n; i++ {
			for k := uint8(0); k < e[i]; k++ {
				term *= x[i]
			}
		}
		sum += term
	}
	return sum
}

// Diff returns the partial derivative with respect to x_i.
func (p *Polynomial) Diff(i int) *Polynomial {
	q := New(p.n)
	for e, c := range p.terms {
		if e[i] == 0 {
			continue
		}
		de := e
		de[i]--
		q.terms[de] += c * float64(e[i])
		if q.terms[de] == 0 {
			delete(q.terms, de)
		}
	}
	return q
}

// Monomials returns the exponent vectors with nonzero coefficients in a
// deterministic (graded lexicographic) order.
func (p *Polynomial) Monomials() []Exponents {
	out := make([]Exponents, 0, len(p.terms))
	for e := range p.terms {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool {
		da, db := out[a].Degree(), out[b].Degree()
		if da != db {
			return da < db
		}
		for i := 0; i < MaxVars; i++ {
			if out[a][i] != out[b][i] {
				return out[a][i] > out[b][i]
			}
		}
		return false
	})
	return out
}

func (p *Polynomial) String() string {
	monos := p.Monomials()
	if len(monos) == 0 {
		return "0"
	}
	var sb strings.Builder
	for idx, e := range monos {
		c := p.terms[e]
		if idx > 0 {
			if c >= 0 {
				sb.WriteString(" + ")
			} else {
				sb.WriteString(" - ")
				c = -c
			}
		}
		sb.WriteString(fmt.Sprintf("%g", c))
		for i := 0; i < p.n; i++ {
			if e[i] == 0 {
				continue
			}
			if e[i] == 1 {
				sb.WriteString(fmt.Sprintf("*x%d", i))
			} else {
				sb.WriteString(fmt.Sprintf("*x%d^%d", i, e[i]))
			}
		}
	}
	return sb.String()
}

// FromQuadratic returns V(x) = x^T P x.
func FromQuadratic(P mat.Symmetric) *Polynomial {
	n := P.SymmetricDim()
	p := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			exps := make([]int, n)
			exps[i]++
			exps[j]++
			p.AddTerm(exps, P.At(i, j))
		}
	}
	return p
}

// LieDerivative returns dV/dt along the polynomial vector field f, i.e.
// sum_i dV/dx_i * f_i.
func LieDerivative(V *Polynomial, f []*Polynomial) *Polynomial {
	if len(f) != V.n {
		panic(fmt.Sprintf("poly: vector field dimension %d does not match %d variables", len(f), V.n))
	}
	out := New(V.n)
	for i := 0; i < V.n; i++ {
		out = out.Add(V.Diff(i).Mul(f[i]))
	}
	return out
}
