package linalg

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Care solves the continuous algebraic Riccati equation
//
//	A^T P + P A - P B R^-1 B^T P + Q = 0
//
// via the stable invariant subspace of the Hamiltonian matrix
//
//	H = | A          -B R^-1 B^T |
//	    | -Q         -A^T        |
//
// Stack the eigenvectors of the n stable eigenvalues as [U1; U2];
// then P = Re(U2 U1^-1). Errors (rather than panics) when the stable
// subspace is defective or U1 is singular, which is the non-convergence
// surface callers assert on.
func Care(A, B, Q, R mat.Matrix) (*mat.SymDense, error) {
	n, m := A.Dims()
	if n != m {
		return nil, fmt.Errorf("linalg: A must be square, got %dx%d", n, m)
	}
	bn, bm := B.Dims()
	if bn != n {
		return nil, fmt.Errorf("linalg: B rows must match A, got %d", bn)
	}
	rn, rm := R.Dims()
	if rn != bm || rm != bm {
		return nil, fmt.Errorf("linalg: R must be %dx%d, got %dx%d", bm, bm, rn, rm)
	}

	var Rinv mat.Dense
	if err := Rinv.Inverse(mat.DenseCopyOf(R)); err != nil {
		return nil, fmt.Errorf("linalg: R not invertible: %w", err)
	}

	// S = B R^-1 B^T
	var BRinv, S mat.Dense
	BRinv.Mul(B, &Rinv)
	S.Mul(&BRinv, B.T())

	H := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			H.Set(i, j, A.At(i, j))
			H.Set(i, n+j, -S.At(i, j))
			H.Set(n+i, j, -Q.At(i, j))
			H.Set(n+i, n+j, -A.At(j, i))
		}
	}

	var eig mat.Eigen
	if ok := eig.Factorize(H, mat.EigenRight); !ok {
		return nil, fmt.Errorf("linalg: hamiltonian eigen factorization failed")
	}
	values := eig.Values(nil)
	vectors := mat.NewCDense(2*n, 2*n, nil)
	eig.VectorsTo(vectors)

	// Collect the eigenvectors of the n stable eigenvalues.
	U1 := make([][]complex128, n)
	U2 := make([][]complex128, n)
	count := 0
	for k := 0; k < 2*n && count < n; k++ {
		if real(values[k]) >= 0 {
			continue
		}
		col1 := make([]complex128, n)
		col2 := make([]complex128, n)
		for i := 0; i < n; i++ {
			col1[i] = vectors.At(i, k)
			col2[i] = vectors.At(n+i, k)
		}
		U1[count] = col1
		U2[count] = col2
		count++
	}
	if count != n {
		return nil, fmt.Errorf("linalg: expected %d stable hamiltonian eigenvalues, found %d (system not stabilizable/detectable?)", n, count)
	}

	// P U1 = U2 with U1 columns stacked; solve column-by-column via
	// complex elimination (gonum has no complex dense Solve).
	P, err := solveComplexPUeqV(U1, U2, n)
	if err != nil {
		return nil, err
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(P[i][j]+P[j][i]))
		}
	}
	return sym, nil
}

// solveComplexPUeqV solves P * U1 = U2, where U1/U2 hold the subspace basis
// column-wise (U1[k][i] = i-th entry of column k). Returns real(P).
func solveComplexPUeqV(U1, U2 [][]complex128, n int) ([][]float64, error) {
	// transpose relation: U1^T P^T = U2^T; build augmented system rows
	// from U1 columns.
	aug := make([][]complex128, n)
	for k := 0; k < n; k++ {
		row := make([]complex128, 2*n)
		copy(row[:n], U1[k])
		copy(row[n:], U2[k])
		aug[k] = row
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if cmplx.Abs(aug[r][col]) > cmplx.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if cmplx.Abs(aug[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("linalg: stable subspace basis is singular")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := 1 / aug[col][col]
		for j := col; j < 2*n; j++ {
			aug[col][j] *= inv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			if f == 0 {
				continue
			}
			for j := col; j < 2*n; j++ {
				aug[r][j] -= f * aug[col][j]
			}
		}
	}

	// aug[:, n:] now holds P^T.
	P := make([][]float64, n)
	for i := 0; i < n; i++ {
		P[i] = make([]float64, n)
	}
	maxImag := 0.0
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			v := aug[k][n+j]
			P[j][k] = real(v)
			maxImag = math.Max(maxImag, math.Abs(imag(v)))
		}
	}
	if maxImag > 1e-6 {
		return nil, fmt.Errorf("linalg: riccati solution has imaginary residue %.2e", maxImag)
	}
	return P, nil
}

// CareResidual returns ||A^T P + P A - P B R^-1 B^T P + Q|| (Frobenius),
// a convergence check for Care solutions.
func CareResidual(A, B, Q, R mat.Matrix, P *mat.SymDense) float64 {
	var Rinv mat.Dense
	if err := Rinv.Inverse(mat.DenseCopyOf(R)); err != nil {
		return math.Inf(1)
	}

	var AtP, PA, BRinv, S, PSP, res mat.Dense
	AtP.Mul(A.T(), P)
	PA.Mul(P, A)
	BRinv.Mul(B, &Rinv)
	S.Mul(&BRinv, B.T())
	PSP.Mul(P, &S)
	PSP.Mul(&PSP, P)

	res.Add(&AtP, &PA)
	res.Sub(&res, &PSP)
	res.Add(&res, Q)
	return mat.Norm(&res, 2)
}

// LQR computes the optimal state-feedback gain K = R^-1 B^T P for the
// infinite-horizon problem with cost integral x^T Q x + u^T R u.
// The closed loop is u = -K x.
func LQR(A, B, Q, R mat.Matrix) (*mat.Dense, error) {
	P, err := Care(A, B, Q, R)
	if err != nil {
		return nil, err
	}

	var Rinv mat.Dense
	if err := Rinv.Inverse(mat.DenseCopyOf(R)); err != nil {
		return nil, fmt.Errorf("linalg: R not invertible: %w", err)
	}

	var BtP, K mat.Dense
	BtP.Mul(B.T(), P)
	K.Mul(&Rinv, &BtP)
	return &K, nil
}
