package main

import (
	"context"
	"fmt"
	"io"

	"github.com/chazu/primfit/pkg/config"
	"github.com/chazu/primfit/pkg/pipeline"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// fileReport is the per-file entry of a structured report.
type fileReport struct {
	pipeline.Result `yaml:",inline"`
	Path            string               `json:"path" yaml:"path"`
	Rebuild         *pipeline.Comparison `json:"rebuild,omitempty" yaml:"rebuild,omitempty"`
}

// report is the top-level JSON/YAML document written by detect.
type report struct {
	ID        string       `json:"id" yaml:"id"`
	Tolerance float64      `json:"tolerance" yaml:"tolerance"`
	Files     []fileReport `json:"files" yaml:"files"`
}

func newDetectCmd(a *app) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Detect primitives in scene files",
		Long: `Evaluate each scene file, mesh it, and detect boxes, cylinders, and
spheres. Files are processed in parallel; output keeps argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.detectAll(cmd.Context(), args, rebuild)
			if err != nil {
				return err
			}
			if err := a.writeDetect(cmd.OutOrStdout(), cmd.ErrOrStderr(), files); err != nil {
				return err
			}

			failed := 0
			for _, f := range files {
				if !f.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "rebuild detected shapes and compare with the source mesh")
	return cmd
}

// detectAll runs every file through its own pipeline, at most
// cfg.Workers at a time. Results are indexed by argument position.
func (a *app) detectAll(ctx context.Context, paths []string, rebuild bool) ([]fileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	files := make([]fileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := a.newPipeline()
			res, err := p.RunFile(path)
			if err != nil {
				return err
			}
			files[i] = fileReport{Result: res, Path: path}
			if !rebuild || len(res.Shapes) == 0 {
				return nil
			}
			c, err := p.Rebuild(res)
			if err != nil {
				a.log.Warn("rebuild failed", "file", path, "err", err)
				return nil
			}
			files[i].Rebuild = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (a *app) writeDetect(out, errOut io.Writer, files []fileReport) error {
	if a.cfg.Format != config.FormatSCAD {
		r := report{ID: uuid.NewString(), Tolerance: a.cfg.Tolerance, Files: files}
		return encode(out, a.cfg.Format, r)
	}

	heading := color.New(color.FgCyan, color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	for _, f := range files {
		if len(files) > 1 {
			fmt.Fprintf(errOut, "%s\n", heading("=== "+f.Path+" ==="))
		}
		for _, e := range f.Errors {
			fmt.Fprintf(errOut, "%s %s\n", red("error:"), e.Error())
		}
		if !f.OK() {
			continue
		}
		fmt.Fprintln(out, f.Script)
		if f.Rebuild != nil {
			fmt.Fprintf(errOut, "%s volume %.3f -> %.3f (ratio %.3f)\n",
				gray("rebuild:"), f.Rebuild.Source.Volume, f.Rebuild.Rebuilt.Volume, f.Rebuild.VolumeRatio)
		}
	}
	return nil
}
