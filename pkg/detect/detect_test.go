package detect

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/scad"
	"github.com/chazu/primfit/pkg/shape"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMesh is a point cloud with a scripted closest-point answer.
type fakeMesh struct {
	points  []v3.Vec
	closest func(v3.Vec) (v3.Vec, error)
}

func (m *fakeMesh) Vertices() []v3.Vec { return m.points }

func (m *fakeMesh) Bounds() meshview.Bounds { return meshview.BoundsOf(m.points) }

func (m *fakeMesh) ClosestPoint(p v3.Vec) (v3.Vec, error) {
	if m.closest == nil {
		return p, nil
	}
	return m.closest(p)
}

// cuboidCorners returns the eight corners of a centered box, repeated.
func cuboidCorners(dx, dy, dz float64, repeat int) []v3.Vec {
	var pts []v3.Vec
	for r := 0; r < repeat; r++ {
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				for _, sz := range []float64{-1, 1} {
					pts = append(pts, v3.Vec{X: sx * dx / 2, Y: sy * dy / 2, Z: sz * dz / 2})
				}
			}
		}
	}
	return pts
}

// cylinderRings samples rings of radius r around Z at the given heights.
func cylinderRings(r float64, zs []float64, perRing int) []v3.Vec {
	var pts []v3.Vec
	for _, z := range zs {
		for i := 0; i < perRing; i++ {
			theta := 2 * math.Pi * float64(i) / float64(perRing)
			pts = append(pts, v3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z})
		}
	}
	return pts
}

// axisRings samples rings of radius r around an axis through center, at
// the given offsets along that axis.
func axisRings(a axis, center v3.Vec, r float64, offsets []float64, perRing int) []v3.Vec {
	var pts []v3.Vec
	for _, h := range offsets {
		for i := 0; i < perRing; i++ {
			theta := 2 * math.Pi * float64(i) / float64(perRing)
			u, v := r*math.Cos(theta), r*math.Sin(theta)
			var p v3.Vec
			switch a {
			case 0:
				p = v3.Vec{X: h, Y: u, Z: v}
			case 1:
				p = v3.Vec{X: u, Y: h, Z: v}
			default:
				p = v3.Vec{X: u, Y: v, Z: h}
			}
			pts = append(pts, center.Add(p))
		}
	}
	return pts
}

// fibonacciSphere spreads n points evenly over a sphere of radius r.
func fibonacciSphere(r float64, n int) []v3.Vec {
	golden := math.Pi * (3 - math.Sqrt(5))
	pts := make([]v3.Vec, n)
	for i := range pts {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		ring := math.Sqrt(1 - y*y)
		theta := golden * float64(i)
		pts[i] = v3.Vec{X: r * ring * math.Cos(theta), Y: r * y, Z: r * ring * math.Sin(theta)}
	}
	return pts
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 2.0, std, 1e-12)

	mean, std = meanStd(nil)
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(std))
	assert.False(t, uniform(mean, std, DefaultTolerance))
}

func TestDetectSphere(t *testing.T) {
	d := New(&fakeMesh{points: fibonacciSphere(5, 200)})

	spheres := d.DetectSpheres()
	require.Len(t, spheres, 1)
	assert.InDelta(t, 5.0, spheres[0].Radius, 0.05)
	assert.InDelta(t, 0.0, spheres[0].Center.Length(), 0.05)
	assert.False(t, spheres[0].IsNegative)

	assert.Empty(t, d.DetectCylinders(), "a sphere has no uniform projected radius")
	assert.Empty(t, d.DetectBoxes(), "sphere points are far from the bounding corners")
}

func TestDetectCylinderAlongZ(t *testing.T) {
	d := New(&fakeMesh{points: cylinderRings(10, []float64{-2, -1, 0, 1, 2}, 16)})

	cylinders := d.DetectCylinders()
	require.Len(t, cylinders, 1)
	c := cylinders[0]
	assert.InDelta(t, 10.0, c.Radius, 1e-9)
	assert.InDelta(t, 4.0, c.Height, 1e-9)
	assert.Equal(t, v3.Vec{Z: 1}, c.Axis)
	assert.InDelta(t, 0.0, c.Center.Length(), 1e-9)
	assert.False(t, c.IsNegative)
}

func TestDetectCylinderEachAxis(t *testing.T) {
	center := v3.Vec{X: 10, Y: -7, Z: 1}
	offsets := []float64{-5, -3, -1, 1, 3, 5}

	tests := []struct {
		axis   axis
		want   v3.Vec
		rotate string
	}{
		{0, v3.Vec{X: 1}, "rotate([0.000, 90.000, 0.000])"},
		{1, v3.Vec{Y: 1}, "rotate([-90.000, 0.000, 0.000])"},
		{2, v3.Vec{Z: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			d := New(&fakeMesh{points: axisRings(tt.axis, center, 3, offsets, 16)})

			cylinders := d.DetectCylinders()
			require.Len(t, cylinders, 1)
			c := cylinders[0]
			assert.Equal(t, tt.want, c.Axis)
			assert.InDelta(t, 3.0, c.Radius, 1e-9)
			assert.InDelta(t, 10.0, c.Height, 1e-9)
			assert.InDelta(t, 0.0, c.Center.Sub(center).Length(), 1e-9)
			assert.False(t, c.IsNegative)

			body := scad.Body(c)
			assert.True(t, strings.HasPrefix(body, "translate([10.000, -7.000, 1.000])\n"), body)
			if tt.rotate == "" {
				assert.NotContains(t, body, "rotate")
			} else {
				assert.Contains(t, body, tt.rotate)
			}
			assert.Contains(t, body, "cylinder(r=3.000, h=10.000, center=true);")
		})
	}
}

func TestDetectCylinderHoleClassification(t *testing.T) {
	pts := cylinderRings(10, []float64{-2, 0, 2}, 16)

	tests := []struct {
		name    string
		closest func(v3.Vec) (v3.Vec, error)
		hole    bool
	}{
		{
			name:    "surface far from center",
			closest: func(p v3.Vec) (v3.Vec, error) { return p.Add(v3.Vec{X: 10}), nil },
			hole:    true,
		},
		{
			name:    "surface at center",
			closest: func(p v3.Vec) (v3.Vec, error) { return p, nil },
			hole:    false,
		},
		{
			name:    "surface just inside half radius",
			closest: func(p v3.Vec) (v3.Vec, error) { return p.Add(v3.Vec{Y: 4.9}), nil },
			hole:    false,
		},
		{
			name:    "query error",
			closest: func(v3.Vec) (v3.Vec, error) { return v3.Vec{}, errors.New("no surface") },
			hole:    false,
		},
		{
			name:    "query panic",
			closest: func(v3.Vec) (v3.Vec, error) { panic("broken index") },
			hole:    false,
		},
		{
			name:    "NaN answer",
			closest: func(v3.Vec) (v3.Vec, error) { return v3.Vec{X: math.NaN()}, nil },
			hole:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&fakeMesh{points: pts, closest: tt.closest})
			cylinders := d.DetectCylinders()
			require.Len(t, cylinders, 1)
			assert.Equal(t, tt.hole, cylinders[0].IsNegative)
		})
	}
}

func TestDetectCylindersNeedsTenVertices(t *testing.T) {
	d := New(&fakeMesh{points: cylinderRings(10, []float64{0}, 9)})
	assert.Empty(t, d.DetectCylinders())

	d = New(&fakeMesh{points: cylinderRings(10, []float64{0}, 10)})
	assert.Len(t, d.DetectCylinders(), 1)
}

func TestDetectCylinderRejectsTinyRadius(t *testing.T) {
	d := New(&fakeMesh{points: cylinderRings(0.05, []float64{0, 1}, 12)})
	for _, c := range d.DetectCylinders() {
		assert.NotEqual(t, v3.Vec{Z: 1}, c.Axis)
	}
}

func TestDetectBox(t *testing.T) {
	d := New(&fakeMesh{points: cuboidCorners(2, 4, 6, 1)})

	boxes := d.DetectBoxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, v3.Vec{}, boxes[0].Center)
	assert.Equal(t, v3.Vec{X: 2, Y: 4, Z: 6}, boxes[0].Dimensions)
	assert.Equal(t, v3.Vec{}, boxes[0].Rotation)
	assert.False(t, boxes[0].IsNegative)
}

func TestDetectBoxCornerFraction(t *testing.T) {
	corners := cuboidCorners(2, 2, 2, 1)
	// Face centers are far from every corner.
	faces := []v3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}

	tests := []struct {
		name   string
		points []v3.Vec
		want   int
	}{
		{"all corners", corners, 1},
		{"corners outnumbered", append(append([]v3.Vec{}, corners[:2]...), append(faces, faces...)...), 0},
		{"exactly 30 percent", append(append([]v3.Vec{}, corners[:3]...), v3.Vec{X: 0.5}, v3.Vec{X: -0.5}, v3.Vec{Y: 0.5}, v3.Vec{Y: -0.5}, v3.Vec{Z: 0.5}, v3.Vec{Z: -0.5}, v3.Vec{}), 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&fakeMesh{points: tt.points})
			assert.Len(t, d.DetectBoxes(), tt.want)
		})
	}
}

func TestBoxToleranceIsAbsolute(t *testing.T) {
	// Every point of a tiny cloud is within 0.1 of some bounding corner, so
	// it passes the box test whatever its shape.
	d := New(&fakeMesh{points: fibonacciSphere(0.02, 50)})
	assert.Len(t, d.DetectBoxes(), 1)

	d = New(&fakeMesh{points: fibonacciSphere(5, 50)})
	assert.Empty(t, d.DetectBoxes())
}

func TestDetectAllOnCuboid(t *testing.T) {
	d := New(&fakeMesh{points: cuboidCorners(2, 4, 6, 2)})

	shapes := d.DetectAll()
	require.Len(t, shapes, 5)

	// Cylinders first, one per axis, then the box, then the sphere.
	for i, want := range []v3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
		c, ok := shapes[i].(shape.Cylinder)
		require.True(t, ok, "shape %d is %T", i, shapes[i])
		assert.Equal(t, want, c.Axis)
	}
	assert.Equal(t, shape.KindBox, shapes[3].Kind())
	assert.Equal(t, shape.KindSphere, shapes[4].Kind())

	assert.Equal(t, map[shape.Kind]int{
		shape.KindBox:        1,
		shape.KindRoundedBox: 0,
		shape.KindCylinder:   3,
		shape.KindSphere:     1,
	}, shapes.Counts())
}

func TestDetectAllResetsResults(t *testing.T) {
	d := New(&fakeMesh{points: fibonacciSphere(5, 100)})
	assert.Empty(t, d.Shapes())

	first := d.DetectAll()
	second := d.DetectAll()
	assert.Len(t, second, len(first))
	assert.Equal(t, second, d.Shapes())
}

func TestShapesReturnsCopy(t *testing.T) {
	d := New(&fakeMesh{points: fibonacciSphere(5, 100)})
	d.DetectAll()
	script := d.Script()

	got := d.Shapes()
	require.Len(t, got, 1)
	got[0] = shape.Box{Dimensions: v3.Vec{X: 1, Y: 1, Z: 1}}
	_ = append(got, shape.Sphere{Radius: 1, IsNegative: true})

	assert.Equal(t, shape.KindSphere, d.Shapes()[0].Kind())
	assert.Equal(t, script, d.Script())
}

func TestDetectAllEmptyMesh(t *testing.T) {
	d := New(&fakeMesh{})

	assert.Empty(t, d.DetectAll())
	assert.Equal(t, "// No shapes detected", d.Script())
}

func TestScriptUsesLastResult(t *testing.T) {
	d := New(&fakeMesh{points: fibonacciSphere(5, 100)})
	assert.Equal(t, "// No shapes detected", d.Script())

	d.DetectAll()
	assert.Contains(t, d.Script(), "sphere(r=")
}

func TestResultPartition(t *testing.T) {
	r := Result{
		shape.Cylinder{Radius: 1, IsNegative: true},
		shape.Box{},
		shape.Sphere{Radius: 2},
	}
	assert.Len(t, r.Positive(), 2)
	require.Len(t, r.Negative(), 1)
	assert.Equal(t, shape.KindCylinder, r.Negative()[0].Kind())
}

func TestWithTolerance(t *testing.T) {
	assert.Equal(t, DefaultTolerance, New(&fakeMesh{}).Tolerance())
	assert.Equal(t, 0.25, New(&fakeMesh{}, WithTolerance(0.25)).Tolerance())
}
