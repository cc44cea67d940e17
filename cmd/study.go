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
	"math"
	"time"
)

// Study collects the errors of a sequence of meshes with decreasing cell size.
type Study struct {
	Title  string
	Degree int
	H      []float64
	L2, H1 []float64
	Times  []time.Duration
}

func (s *Study) Add(h, l2, h1 float64, elapsed time.Duration) {
	s.H = append(s.H, h)
	s.L2 = append(s.L2, l2)
	s.H1 = append(s.H1, h1)
	s.Times = append(s.Times, elapsed)
}

// Orders returns the observed convergence order between consecutive meshes, the first
// entry is NaN.
func Orders(h, err []float64) (p []float64) {
	p = make([]float64, len(h))
	for i := range p {
		if i == 0 || err[i] == 0 || err[i-1] == 0 {
			p[i] = math.NaN()
			continue
		}
		p[i] = math.Log(err[i-1]/err[i]) / math.Log(h[i-1]/h[i])
	}
	return
}

func (s *Study) Print() {
	var (
		pL2 = Orders(s.H, s.L2)
		pH1 = Orders(s.H, s.H1)
	)
	fmt.Printf("Title = %s, Degree = %d\n", s.Title, s.Degree)
	fmt.Printf("%10s %12s %6s %12s %6s %12s\n", "h", "L2", "order", "H1", "order", "time")
	for i := range s.H {
		fmt.Printf("%10.5f %12.5e %6.2f %12.5e %6.2f %12v\n", s.H[i], s.L2[i], pL2[i], s.H1[i], pH1[i], s.Times[i])
	}
}
