package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chazu/primfit/pkg/config"
	"github.com/chazu/primfit/pkg/kernel/sdfx"
	"github.com/chazu/primfit/pkg/logging"
	"github.com/chazu/primfit/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     config.Config
	log     *log.Logger
	cfgFile string
	envFile string
}

// newRootCmd builds the command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	d := config.Defaults()

	root := &cobra.Command{
		Use:   "primfit",
		Short: "Detect parametric primitives in scene meshes",
		Long: `primfit evaluates scene files, meshes them, and fits boxes, cylinders,
and spheres to the result. Detected shapes are emitted as an OpenSCAD
script or as JSON/YAML records.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with PRIMFIT_* settings")
	pf.Float64(config.KeyTolerance, d.Tolerance, "detection tolerance")
	pf.String(config.KeyLogLevel, d.LogLevel, "log level (debug|info|warn|error)")
	pf.Int(config.KeyResolution, d.Resolution, "marching cubes cells along the longest axis")
	pf.StringP(config.KeyFormat, "f", d.Format, "output format (scad|json|yaml)")
	pf.Int(config.KeyWorkers, d.Workers, "files processed in parallel")
	pf.Duration(config.KeyTimeout, d.Timeout, "scene evaluation time limit")

	for _, key := range []string{
		config.KeyTolerance, config.KeyLogLevel, config.KeyResolution,
		config.KeyFormat, config.KeyWorkers, config.KeyTimeout,
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", key, err))
		}
	}

	root.AddCommand(newDetectCmd(a), newInfoCmd(a), newVersionCmd())
	return root
}

// load resolves configuration before any subcommand runs.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile, a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	a.log.Debug("configuration loaded", "tolerance", cfg.Tolerance, "resolution", cfg.Resolution, "workers", cfg.Workers)
	return nil
}

// newPipeline returns a pipeline configured from a.cfg. Each call builds
// its own engine and kernel.
func (a *app) newPipeline() *pipeline.Pipeline {
	return pipeline.New(
		pipeline.WithTolerance(a.cfg.Tolerance),
		pipeline.WithKernel(sdfx.NewWithResolution(a.cfg.Resolution)),
		pipeline.WithTimeout(a.cfg.Timeout),
		pipeline.WithLogger(a.log),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "primfit v%s\n", version)
		},
	}
}
