package pipeline

import (
	"errors"
	"fmt"

	"github.com/chazu/primfit/pkg/meshview"
	"github.com/chazu/primfit/pkg/tessellate"
)

// ErrNoMesh is returned when rebuilding a result that never produced a
// mesh.
var ErrNoMesh = errors.New("pipeline: result has no mesh")

// Comparison relates a source mesh to the solid rebuilt from its detected
// shapes.
type Comparison struct {
	Source  meshview.Info `json:"source" yaml:"source"`
	Rebuilt meshview.Info `json:"rebuilt" yaml:"rebuilt"`
	// VolumeRatio is rebuilt volume over source volume; 0 when the source
	// volume is 0.
	VolumeRatio float64 `json:"volume_ratio" yaml:"volume_ratio"`
}

// Rebuild reconstructs the detected shapes of r with the pipeline kernel
// and compares the result against the source mesh.
func (p *Pipeline) Rebuild(r Result) (Comparison, error) {
	if r.Mesh == nil {
		return Comparison{}, ErrNoMesh
	}
	solid, err := tessellate.Rebuild(r.Shapes, p.kernel)
	if err != nil {
		return Comparison{}, err
	}
	mesh, err := p.kernel.ToMesh(solid)
	if err != nil {
		return Comparison{}, fmt.Errorf("pipeline: rebuild mesh: %w", err)
	}
	mesh.Name = r.Name + " (rebuilt)"

	c := Comparison{
		Source:  r.Info,
		Rebuilt: meshview.Describe(mesh),
	}
	if c.Source.Volume != 0 {
		c.VolumeRatio = c.Rebuilt.Volume / c.Source.Volume
	}
	p.log.Debug("rebuilt", "scene", r.Name, "volume_ratio", c.VolumeRatio)
	return c, nil
}
