package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/primfit/pkg/config"
	"github.com/chazu/primfit/pkg/meshview"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show mesh statistics for a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			info, err := a.newPipeline().Describe(name, string(src))
			if err != nil {
				return err
			}
			if a.cfg.Format != config.FormatSCAD {
				return encode(cmd.OutOrStdout(), a.cfg.Format, info)
			}
			writeInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func writeInfo(w io.Writer, info meshview.Info) {
	label := color.New(color.FgYellow).SprintFunc()
	b := info.Bounds
	fmt.Fprintf(w, "%s %s\n", label("Name:       "), info.Name)
	fmt.Fprintf(w, "%s %d\n", label("Vertices:   "), info.Vertices)
	fmt.Fprintf(w, "%s %d\n", label("Faces:      "), info.Faces)
	fmt.Fprintf(w, "%s %.3f\n", label("Volume:     "), info.Volume)
	fmt.Fprintf(w, "%s [%.3f, %.3f, %.3f]\n", label("Center:     "),
		info.CenterOfMass[0], info.CenterOfMass[1], info.CenterOfMass[2])
	fmt.Fprintf(w, "%s [%.3f, %.3f] [%.3f, %.3f] [%.3f, %.3f]\n", label("Bounds:     "),
		b[0], b[1], b[2], b[3], b[4], b[5])
	fmt.Fprintf(w, "%s %.3f\n", label("Diagonal:   "), info.Diagonal)
}
