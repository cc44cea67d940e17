/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func xys(x, y []float64) (pts plotter.XYs) {
	for i := range x {
		if y[i] > 0 {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return
}

// Plot writes the errors of the study against the cell size on log-log axes.
func (s *Study) Plot(file string) (err error) {
	if len(s.H) == 0 {
		return fmt.Errorf("study %q has no entries", s.Title)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s, degree %d", s.Title, s.Degree)
	p.X.Label.Text = "h"
	p.Y.Label.Text = "error"
	p.X.Scale, p.Y.Scale = plot.LogScale{}, plot.LogScale{}
	p.X.Tick.Marker, p.Y.Tick.Marker = plot.LogTicks{Prec: -1}, plot.LogTicks{Prec: -1}
	if err = plotutil.AddLinePoints(p,
		"L2", xys(s.H, s.L2),
		"H1", xys(s.H, s.H1)); err != nil {
		return
	}
	return p.Save(5*vg.Inch, 4*vg.Inch, file)
}
