package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/render"
	"interior-planner/internal/editor/service"
	"interior-planner/internal/editor/store"
)

func newExportCmd() *cobra.Command {
	var (
		output     string
		dimensions bool
	)

	cmd := &cobra.Command{
		Use:   "export-svg <project.interior3d>",
		Short: "Render a saved project as an SVG floor plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := service.ReadProject(args[0])
			if err != nil {
				return err
			}

			st := store.New()
			if err := st.Load(doc); err != nil {
				return err
			}
			st.SetShowDimensions(dimensions)

			svg := render.NewSVGRenderer(geometry.DefaultViewport()).Render(render.PlanFromState(st.Snapshot()))

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d walls, %d assets\n", output, len(doc.Walls), len(doc.Assets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: next to the project)")
	cmd.Flags().BoolVar(&dimensions, "dimensions", true, "Draw wall lengths")

	return cmd
}
