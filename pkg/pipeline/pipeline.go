// Package pipeline runs a scene program end to end: evaluate, tessellate,
// adapt the mesh, detect primitives, and emit a script.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chazu/primfit/pkg/detect"
	"github.com/chazu/primfit/pkg/engine"
	"github.com/chazu/primfit/pkg/kernel"
	"github.com/chazu/primfit/pkg/kernel/sdfx"
	"github.com/chazu/primfit/pkg/logging"
	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/scad"
	"github.com/chazu/primfit/pkg/shape"
	"github.com/chazu/primfit/pkg/tessellate"
	"github.com/google/uuid"
)

// Pipeline wires an engine, a kernel, and detector settings together.
// A Pipeline is cheap; use one per goroutine.
type Pipeline struct {
	engine    *engine.Engine
	kernel    kernel.Kernel
	tolerance float64
	timeout   time.Duration
	log       *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTolerance sets the detector tolerance.
func WithTolerance(tolerance float64) Option {
	return func(p *Pipeline) { p.tolerance = tolerance }
}

// WithKernel replaces the default sdfx kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(p *Pipeline) { p.kernel = k }
}

// WithTimeout sets the scene evaluation time limit.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithLogger sets the logger used by the pipeline and its detector.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Pipeline with the sdfx kernel and default tolerance.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		tolerance: detect.DefaultTolerance,
		timeout:   engine.DefaultTimeout,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.kernel == nil {
		p.kernel = sdfx.New()
	}
	p.engine = engine.NewEngine(engine.WithTimeout(p.timeout))
	return p
}

// Result is the outcome of one run. Slices are never nil so the result
// serializes as empty lists rather than nulls.
type Result struct {
	ID      string             `json:"id" yaml:"id"`
	Name    string             `json:"name" yaml:"name"`
	Counts  map[shape.Kind]int `json:"counts" yaml:"counts"`
	Records []shape.Record     `json:"shapes" yaml:"shapes"`
	Script  string             `json:"script" yaml:"script"`
	Info    meshview.Info      `json:"mesh" yaml:"mesh"`
	Errors  []engine.EvalError `json:"errors" yaml:"errors"`

	Shapes detect.Result `json:"-" yaml:"-"`
	Mesh   *kernel.Mesh  `json:"-" yaml:"-"`
}

// OK reports whether the run finished without errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func newResult(name string) Result {
	return Result{
		ID:      uuid.NewString(),
		Name:    name,
		Counts:  detect.Result(nil).Counts(),
		Records: []shape.Record{},
		Script:  scad.EmptyScript,
		Errors:  []engine.EvalError{},
		Shapes:  detect.Result{},
	}
}

// Run evaluates source and detects primitives in the resulting mesh.
// Failures are reported in Result.Errors.
func (p *Pipeline) Run(name, source string) Result {
	result := newResult(name)
	l := p.log.With("scene", name)

	// Step 1: Evaluate the scene source.
	s, evalErrs, err := p.engine.Evaluate(source)
	if err != nil {
		l.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			l.Error("evaluation error", "line", e.Line, "msg", e.Message)
		}
		result.Errors = append(result.Errors, evalErrs...)
		return result
	}

	// Step 2: Tessellate the scene.
	mesh, err := tessellate.Tessellate(s, p.kernel)
	if err != nil {
		l.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: "tessellation failed: " + err.Error()})
		return result
	}
	mesh.Name = name
	result.Mesh = mesh
	result.Info = meshview.Describe(mesh)
	l.Debug("tessellated", "vertices", result.Info.Vertices, "faces", result.Info.Faces)

	// Step 3: Detect primitives.
	d := detect.New(meshview.FromMesh(mesh), detect.WithTolerance(p.tolerance), detect.WithLogger(l))
	shapes := d.DetectAll()
	if shapes != nil {
		result.Shapes = shapes
	}
	result.Counts = shapes.Counts()
	result.Records = shape.ToRecords(shapes)
	result.Script = d.Script()
	l.Info("detected", "shapes", len(shapes))
	return result
}

// RunFile reads a scene file and runs it. The scene is named after the
// file's base name without extension.
func (p *Pipeline) RunFile(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p.Run(name, string(src)), nil
}

// Describe evaluates and tessellates source without running detection.
func (p *Pipeline) Describe(name, source string) (meshview.Info, error) {
	s, evalErrs, err := p.engine.Evaluate(source)
	if err != nil {
		return meshview.Info{}, fmt.Errorf("pipeline: %w", err)
	}
	if len(evalErrs) > 0 {
		return meshview.Info{}, fmt.Errorf("pipeline: %w", evalErrs[0])
	}
	mesh, err := tessellate.Tessellate(s, p.kernel)
	if err != nil {
		return meshview.Info{}, fmt.Errorf("pipeline: %w", err)
	}
	mesh.Name = name
	return meshview.Describe(mesh), nil
}
