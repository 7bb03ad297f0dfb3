package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/svgrender/testcases"
)

func (c *cli) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [scene...]",
		Short: "Write scene definitions as JSON",
		Long:  "Write the named scenes, or all of them, as JSON so that reference images can be produced by other renderers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := sceneNames(args)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeScenes(w, names); err != nil {
				return err
			}
			c.logger.Debug("exported scenes", "count", len(names), "output", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

type jsonScene struct {
	Name   string     `json:"name"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Items  []jsonItem `json:"items"`
}

type jsonItem struct {
	Path      []jsonSegment `json:"path"`
	CTM       []float64     `json:"ctm"`
	Fill      *jsonFill     `json:"fill,omitempty"`
	Stroke    *jsonStroke   `json:"stroke,omitempty"`
	Opacity   float64       `json:"opacity"`
	Instances [][]float64   `json:"instances,omitempty"`
}

type jsonFill struct {
	Rule  string `json:"rule"`
	Color string `json:"color"`
}

type jsonStroke struct {
	Color      string    `json:"color"`
	Width      float64   `json:"width"`
	Cap        string    `json:"cap"`
	Join       string    `json:"join"`
	MiterLimit float64   `json:"miter_limit"`
	Dash       []float64 `json:"dash,omitempty"`
	DashPhase  float64   `json:"dash_phase,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func writeScenes(w io.Writer, names []string) error {
	var out struct {
		Scenes []jsonScene `json:"scenes"`
	}
	for _, name := range names {
		out.Scenes = append(out.Scenes, sceneToJSON(testcases.All[name]))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func sceneToJSON(sc testcases.Scene) jsonScene {
	js := jsonScene{Name: sc.Name, Width: sc.Width, Height: sc.Height}
	for _, item := range sc.Items {
		ctm := item.CTM
		if ctm == (matrix.Matrix{}) {
			ctm = matrix.Identity
		}
		opacity := item.Opacity
		if opacity == 0 {
			opacity = 1
		}

		ji := jsonItem{
			Path:    pathToJSON(item.Path),
			CTM:     ctm[:],
			Opacity: opacity,
		}
		if f := item.Fill; f != nil {
			rule := "nonzero"
			if f.Rule == testcases.EvenOdd {
				rule = "evenodd"
			}
			ji.Fill = &jsonFill{Rule: rule, Color: hexColor(f.Color)}
		}
		if s := item.Stroke; s != nil {
			ji.Stroke = &jsonStroke{
				Color:      hexColor(s.Color),
				Width:      s.Width,
				Cap:        s.Cap.String(),
				Join:       s.Join.String(),
				MiterLimit: s.MiterLimit,
				Dash:       s.Dash,
				DashPhase:  s.DashPhase,
			}
		}
		for _, off := range item.Instances {
			ji.Instances = append(ji.Instances, []float64{off.X, off.Y})
		}
		js.Items = append(js.Items, ji)
	}
	return js
}

func pathToJSON(p path.Path) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdQuadTo:
			seg.Cmd = "Q"
		case path.CmdCubeTo:
			seg.Cmd = "C"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}

func hexColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
