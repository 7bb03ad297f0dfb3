// seehuhn.de/go/svgrender - path attributes and raster tile caching
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/svgrender/testcases"
)

func (c *cli) pdfCommand() *cobra.Command {
	var outDir string
	var ghostscript bool

	cmd := &cobra.Command{
		Use:   "pdf [scene...]",
		Short: "Write coverage reference PDFs for scenes",
		Long: `Write one PDF per scene in which every painted area is white on a black
background. With --gs the PDFs are rasterized by Ghostscript, which gives
reference coverage images for comparison with the PNG files written by
"svgtile render".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := sceneNames(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, name := range names {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				pdfPath := filepath.Join(outDir, name+".pdf")
				if err := writeReferencePDF(testcases.All[name], pdfPath); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				c.logger.Info("wrote", "file", pdfPath)

				if !ghostscript {
					continue
				}
				pngPath := filepath.Join(outDir, name+"_ref.png")
				if err := ghostscriptPNG(cmd.Context(), pdfPath, pngPath); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				c.logger.Info("wrote", "file", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&ghostscript, "gs", false, "rasterize the PDFs with Ghostscript")
	return cmd
}

// writeReferencePDF draws all passes of all items of sc in white on black.
func writeReferencePDF(sc testcases.Scene, fname string) error {
	// 1 point = 1 pixel at 72 dpi
	paper := &pdf.Rectangle{
		URx: float64(sc.Width),
		URy: float64(sc.Height),
	}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(sc.Width), float64(sc.Height))
	page.Fill()

	// scenes use a y-down coordinate system
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(sc.Height)})

	page.SetFillColor(color.DeviceGray(1))
	page.SetStrokeColor(color.DeviceGray(1))

	for _, item := range sc.Items {
		ctm := item.CTM
		if ctm == (matrix.Matrix{}) {
			ctm = matrix.Identity
		}
		positions := append([]vec.Vec2{{}}, item.Instances...)
		for _, off := range positions {
			page.PushGraphicsState()
			page.Transform(ctm.Translate(off.X, off.Y))

			if f := item.Fill; f != nil {
				emitPath(page, item.Path)
				if f.Rule == testcases.EvenOdd {
					page.FillEvenOdd()
				} else {
					page.Fill()
				}
			}
			if s := item.Stroke; s != nil {
				page.SetLineWidth(s.Width)
				page.SetLineCap(s.Cap)
				page.SetLineJoin(s.Join)
				page.SetMiterLimit(s.MiterLimit)
				if len(s.Dash) > 0 {
					page.SetLineDash(s.Dash, s.DashPhase)
				}
				emitPath(page, item.Path)
				page.Stroke()
			}

			page.PopGraphicsState()
		}
	}

	return page.Close()
}

// emitPath appends p to the current page. PDF has no quadratic curves, so
// these are raised to cubics.
func emitPath(page *document.Page, p path.Path) {
	var current, start vec.Vec2
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
			current, start = pts[0], pts[0]
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
			current = pts[0]
		case path.CmdQuadTo:
			c1 := current.Add(pts[0].Sub(current).Mul(2.0 / 3))
			c2 := pts[1].Add(pts[0].Sub(pts[1]).Mul(2.0 / 3))
			page.CurveTo(c1.X, c1.Y, c2.X, c2.Y, pts[1].X, pts[1].Y)
			current = pts[1]
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			current = pts[2]
		case path.CmdClose:
			page.ClosePath()
			current = start
		}
	}
}

// ghostscriptPNG renders the PDF as an 8-bit grey image at 72 dpi with
// 4× anti-aliasing.
func ghostscriptPNG(ctx context.Context, pdfPath, pngPath string) error {
	cmd := exec.CommandContext(ctx,
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
