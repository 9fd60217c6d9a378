// Package sos builds the structured sum-of-squares certificates the
// Lyapunov exercises need: Gram-matrix feasibility over a fixed monomial
// basis plus a scan over the scalar parameters that make the problem
// bilinear. It is deliberately not a general SDP/SOS solver; every search
// here exploits the low degree and known structure of the course problems.
package sos

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ctrlab/ctrlab/internal/poly"
)

// psdTol is the eigenvalue slack allowed when deciding positive
// semidefiniteness; certificates on the feasibility boundary sit at
// exactly zero.
const psdTol = 1e-9

// MonomialBasis enumerates the exponent vectors in nvars variables with
// total degree in [minDeg, maxDeg], in graded order.
func MonomialBasis(nvars, minDeg, maxDeg int) []poly.Exponents {
	var out []poly.Exponents
	var walk func(e poly.Exponents, idx, deg int)
	walk = func(e poly.Exponents, idx, deg int) {
		if idx == nvars {
			if deg >= minDeg {
				out = append(out, e)
			}
			return
		}
		for d := 0; d+deg <= maxDeg; d++ {
			e[idx] = uint8(d)
			walk(e, idx+1, deg+d)
		}
	}
	var e poly.Exponents
	walk(e, 0, 0)

	// graded order, matching poly.Monomials
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(a, b poly.Exponents) bool {
	da, db := a.Degree(), b.Degree()
	if da != db {
		return da < db
	}
	for i := 0; i < poly.MaxVars; i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// IsSOS attempts to write p = z^T G z with G positive semidefinite over the
// monomial basis z. The Gram entries are the solution of the linear
// coefficient-matching system; when that system is underdetermined the
// minimum-norm Gram is used, which can miss certificates that only exist
// elsewhere in the affine Gram family. Good enough for the low-degree
// certificates here, and it never reports a false positive.
func IsSOS(p *poly.Polynomial, basis []poly.Exponents) (*mat.SymDense, bool, error) {
	k := len(basis)
	if k == 0 {
		return nil, false, fmt.Errorf("sos: empty basis")
	}

	// Unknowns: upper-triangle Gram entries.
	type pair struct{ i, j int }
	unknowns := make([]pair, 0, k*(k+1)/2)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			unknowns = append(unknowns, pair{i, j})
		}
	}

	// Rows: distinct product monomials, plus any monomial of p not
	// reachable from the basis (those force infeasibility).
	rowIdx := make(map[poly.Exponents]int)
	var rows []poly.Exponents
	addRow := func(e poly.Exponents) int {
		if idx, ok := rowIdx[e]; ok {
			return idx
		}
		rowIdx[e] = len(rows)
		rows = append(rows, e)
		return len(rows) - 1
	}
	for _, u := range unknowns {
		addRow(basis[u.i].Add(basis[u.j]))
	}
	for _, e := range p.Monomials() {
		if _, ok := rowIdx[e]; !ok {
			// p contains a monomial no basis product produces
			return nil, false, nil
		}
	}

	m := len(rows)
	A := mat.NewDense(m, len(unknowns), nil)
	for col, u := range unknowns {
		r := rowIdx[basis[u.i].Add(basis[u.j])]
		w := 1.0
		if u.i != u.j {
			w = 2.0
		}
		A.Set(r, col, A.At(r, col)+w)
	}

	c := mat.NewVecDense(m, nil)
	for e, idx := range rowIdx {
		exps := make([]int, p.NumVars())
		for i := range exps {
			exps[i] = int(e[i])
		}
		c.SetVec(idx, p.Coeff(exps))
	}

	g := mat.NewVecDense(len(unknowns), nil)
	if m >= len(unknowns) {
		if err := g.SolveVec(A, c); err != nil {
			return nil, false, nil
		}
		// exactness check: least squares must actually match
		var res mat.VecDense
		res.MulVec(A, g)
		res.SubVec(&res, c)
		if mat.Norm(&res, 2) > 1e-8 {
			return nil, false, nil
		}
	} else {
		// minimum-norm solution g = A^T y with A A^T y = c
		var AAt mat.Dense
		AAt.Mul(A, A.T())
		var y mat.VecDense
		if err := y.SolveVec(&AAt, c); err != nil {
			return nil, false, nil
		}
		g.MulVec(A.T(), &y)
	}

	G := mat.NewSymDense(k, nil)
	for col, u := range unknowns {
		G.SetSym(u.i, u.j, g.AtVec(col))
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(G, false); !ok {
		return nil, false, fmt.Errorf("sos: gram eigen factorization failed")
	}
	for _, v := range eig.Values(nil) {
		if v < -psdTol {
			return G, false, nil
		}
	}
	return G, true, nil
}
