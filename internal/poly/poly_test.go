package poly

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEvalAndArithmetic(t *testing.T) {
	// p = 1 + 2*x0 + 3*x0*x1^2
	p := New(2)
	p.AddTerm([]int{0, 0}, 1)
	p.AddTerm([]int{1, 0}, 2)
	p.AddTerm([]int{1, 2}, 3)

	got := p.Eval([]float64{2, 3})
	want := 1.0 + 4.0 + 3.0*2*9
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Eval: expected %f, got %f", want, got)
	}

	q := p.Add(p)
	if math.Abs(q.Eval([]float64{2, 3})-2*want) > 1e-12 {
		t.Error("Add broken")
	}

	if !p.Sub(p).IsZero(0) {
		t.Error("p - p should be zero")
	}
}

func TestMulDegrees(t *testing.T) {
	x := Variable(1, 0)
	x2 := x.Mul(x)

	if x2.Degree() != 2 {
		t.Errorf("expected degree 2, got %d", x2.Degree())
	}
	if x2.Coeff([]int{2}) != 1 {
		t.Errorf("expected coefficient 1 on x^2, got %f", x2.Coeff([]int{2}))
	}

	// (1+x)^2 = 1 + 2x + x^2
	onePlusX := Constant(1, 1).Add(x)
	sq := onePlusX.Mul(onePlusX)
	if sq.Coeff([]int{0}) != 1 || sq.Coeff([]int{1}) != 2 || sq.Coeff([]int{2}) != 1 {
		t.Errorf("unexpected square: %s", sq)
	}
}

func TestDiff(t *testing.T) {
	// p = x0^3 * x1
	p := New(2)
	p.AddTerm([]int{3, 1}, 1)

	dx0 := p.Diff(0)
	if dx0.Coeff([]int{2, 1}) != 3 {
		t.Errorf("d/dx0 expected 3*x0^2*x1, got %s", dx0)
	}

	dx1 := p.Diff(1)
	if dx1.Coeff([]int{3, 0}) != 1 {
		t.Errorf("d/dx1 expected x0^3, got %s", dx1)
	}

	if Constant(2, 5).Diff(0).IsZero(0) == false {
		t.Error("derivative of constant should be zero")
	}
}

func TestFromQuadratic(t *testing.T) {
	P := mat.NewSymDense(2, []float64{2, 1, 1, 3})
	V := FromQuadratic(P)

	x := []float64{1.5, -0.5}
	want := 2*1.5*1.5 + 2*1*1.5*(-0.5) + 3*0.25
	if math.Abs(V.Eval(x)-want) > 1e-12 {
		t.Errorf("x^T P x: expected %f, got %f", want, V.Eval(x))
	}
}

func TestLieDerivativeCubic(t *testing.T) {
	// V = x^2, f = -x + x^3  =>  Vdot = 2x(-x + x^3) = -2x^2 + 2x^4
	V := New(1)
	V.AddTerm([]int{2}, 1)

	f := New(1)
	f.AddTerm([]int{1}, -1)
	f.AddTerm([]int{3}, 1)

	vdot := LieDerivative(V, []*Polynomial{f})

	if vdot.Coeff([]int{2}) != -2 {
		t.Errorf("expected -2 on x^2, got %f", vdot.Coeff([]int{2}))
	}
	if vdot.Coeff([]int{4}) != 2 {
		t.Errorf("expected 2 on x^4, got %f", vdot.Coeff([]int{4}))
	}
}

func TestMonomialsDeterministicOrder(t *testing.T) {
	p := New(2)
	p.AddTerm([]int{0, 2}, 1)
	p.AddTerm([]int{1, 0}, 1)
	p.AddTerm([]int{0, 0}, 1)

	monos := p.Monomials()
	if len(monos) != 3 {
		t.Fatalf("expected 3 monomials, got %d", len(monos))
	}
	if monos[0].Degree() != 0 || monos[1].Degree() != 1 || monos[2].Degree() != 2 {
		t.Errorf("monomials not in graded order: %v", monos)
	}
}
