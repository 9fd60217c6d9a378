package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/integrators"
	"github.com/ctrlab/ctrlab/internal/plant"
)

func TestTrajectoryRecordsProjection(t *testing.T) {
	vdp := plant.NewVanDerPol()
	points, err := Trajectory(vdp, integrators.NewRK4(), dynamics.State{2, 0}, 0, 1, 0.01, 10)
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	if len(points) != 1000 {
		t.Errorf("expected 1000 points, got %d", len(points))
	}
	// the limit cycle stays within a known box for mu = 1
	for _, p := range points {
		if math.Abs(p.X) > 3 || math.Abs(p.Y) > 4 {
			t.Fatalf("trajectory escaped expected bounds at (%g, %g)", p.X, p.Y)
		}
	}
}

func TestTrajectoryValidation(t *testing.T) {
	vdp := plant.NewVanDerPol()
	if _, err := Trajectory(vdp, integrators.NewRK4(), dynamics.State{2, 0}, 0, 5, 0.01, 10); err == nil {
		t.Error("expected an error for an out-of-range projection index")
	}
	if _, err := Trajectory(vdp, integrators.NewRK4(), dynamics.State{2, 0}, 0, 1, -0.01, 10); err == nil {
		t.Error("expected an error for a negative dt")
	}
}

func TestPortraitFromGrid(t *testing.T) {
	vdp := plant.NewVanDerPol()
	inits := GridInitialStates(-2, 2, -2, 2, 3, 3)
	if len(inits) != 9 {
		t.Fatalf("expected 9 initial states, got %d", len(inits))
	}
	p, err := PortraitFromGrid(vdp, integrators.NewRK4(), inits, 0, 1, 0.01, 5)
	if err != nil {
		t.Fatalf("PortraitFromGrid: %v", err)
	}
	if len(p.Trails) != 9 {
		t.Errorf("expected 9 trails, got %d", len(p.Trails))
	}

	art := p.ToASCII(60, 20)
	if !strings.Contains(art, "•") {
		t.Error("ASCII portrait has no plotted points")
	}
	if lines := strings.Count(art, "\n"); lines != 20 {
		t.Errorf("expected 20 canvas rows, got %d", lines)
	}
}

func TestVectorFieldGlyphs(t *testing.T) {
	// dx/dt = -x, dy/dt = -y points toward the origin everywhere
	sys := plant.NewDampedSpring(1, 1, 2)
	field := VectorField(sys, -1, 1, -1, 1, 8, 6)
	if lines := strings.Count(field, "\n"); lines != 6 {
		t.Errorf("expected 6 rows, got %d", lines)
	}
	if strings.TrimSpace(field) == "" {
		t.Error("vector field rendered empty")
	}
}

func TestPoincareSectionVanDerPol(t *testing.T) {
	vdp := plant.NewVanDerPol()
	// cross x1 = 0 upward; on the limit cycle that happens once per period
	points, err := PoincareSection(vdp, integrators.NewRK4(), dynamics.State{2, 0}, 0, 0, 0, 1, 0.001, 60)
	if err != nil {
		t.Fatalf("PoincareSection: %v", err)
	}
	if len(points) < 5 {
		t.Fatalf("expected several crossings over 60s, got %d", len(points))
	}
	// once settled on the cycle the crossing point is a fixed point
	last, prev := points[len(points)-1], points[len(points)-2]
	if math.Abs(last.Y-prev.Y) > 1e-3 {
		t.Errorf("section points not converging: %v vs %v", prev, last)
	}
}

func TestLyapunovExponentContracting(t *testing.T) {
	// x'' + x' + x = 0 has eigenvalues with real part -0.5
	sys := plant.NewDampedSpring(1, 1, 1)
	lambda := LyapunovExponent(sys, integrators.NewRK4(), dynamics.State{1, 0}, 0.01, 50, 1e-8)
	if math.Abs(lambda-(-0.5)) > 0.05 {
		t.Errorf("lambda = %g, want about -0.5", lambda)
	}
}

func TestDominantPeriodSine(t *testing.T) {
	dt := 0.01
	n := 4096
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 2.5 * float64(i) * dt)
	}
	period, err := DominantPeriod(samples, dt)
	if err != nil {
		t.Fatalf("DominantPeriod: %v", err)
	}
	if math.Abs(period-0.4) > 0.01 {
		t.Errorf("period = %g, want 0.4", period)
	}
}

func TestDominantPeriodVanDerPol(t *testing.T) {
	vdp := plant.NewVanDerPol()
	dt := 0.05
	points, err := Trajectory(vdp, integrators.NewRK4(), dynamics.State{2, 0}, 0, 1, dt, float64(4096)*dt)
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	samples := make([]float64, len(points))
	for i, p := range points {
		samples[i] = p.X
	}
	period, err := DominantPeriod(samples, dt)
	if err != nil {
		t.Fatalf("DominantPeriod: %v", err)
	}
	if period < 6.2 || period > 7.2 {
		t.Errorf("period = %g, want about 6.66", period)
	}
}
