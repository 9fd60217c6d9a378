package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Lyap solves the continuous Lyapunov equation
//
//	A^T P + P A = -Q
//
// for symmetric P by vectorizing the equation into an n^2 x n^2 linear
// system. Plant dimensions here are tiny (n <= 4), so the dense solve is
// fine. The result is symmetrized to clean up roundoff.
func Lyap(A, Q mat.Matrix) (*mat.SymDense, error) {
	n, m := A.Dims()
	if n != m {
		return nil, fmt.Errorf("linalg: A must be square, got %dx%d", n, m)
	}
	qn, qm := Q.Dims()
	if qn != n || qm != n {
		return nil, fmt.Errorf("linalg: Q must be %dx%d, got %dx%d", n, n, qn, qm)
	}

	// Row r = i*n+j encodes equation (i,j); unknown p[k*n+l] = P[k,l].
	M := mat.NewDense(n*n, n*n, nil)
	rhs := mat.NewVecDense(n*n, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := i*n + j
			for k := 0; k < n; k++ {
				// (A^T P)[i,j] = sum_k A[k,i] P[k,j]
				M.Set(r, k*n+j, M.At(r, k*n+j)+A.At(k, i))
				// (P A)[i,j] = sum_k P[i,k] A[k,j]
				M.Set(r, i*n+k, M.At(r, i*n+k)+A.At(k, j))
			}
			rhs.SetVec(r, -Q.At(i, j))
		}
	}

	var p mat.VecDense
	if err := p.SolveVec(M, rhs); err != nil {
		return nil, fmt.Errorf("linalg: lyapunov system singular (is A + A^T degenerate?): %w", err)
	}

	P := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			P.SetSym(i, j, 0.5*(p.AtVec(i*n+j)+p.AtVec(j*n+i)))
		}
	}
	return P, nil
}

// IsHurwitz reports whether all eigenvalues of A have negative real part.
func IsHurwitz(A mat.Matrix) (bool, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(mat.DenseCopyOf(A), mat.EigenNone); !ok {
		return false, fmt.Errorf("linalg: eigen factorization failed")
	}
	for _, v := range eig.Values(nil) {
		if real(v) >= 0 {
			return false, nil
		}
	}
	return true, nil
}

// Eye returns the n x n identity.
func Eye(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}
