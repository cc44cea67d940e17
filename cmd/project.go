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
	"io/ioutil"
	"math"
	"time"

	"github.com/notargets/fevalues/InputParameters"
	"github.com/notargets/fevalues/assembly"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ProjectCmd represents the project command
var ProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Convergence study of the L2 projection of a smooth field",
	Long: `
Projects a product of sines onto the element of the input file on a sequence of
refined meshes and reports the L2 and H1 errors with their convergence order,

fevalues project -I input.yaml -l 4 -p convergence.png`,
	Run: func(cmd *cobra.Command, args []string) {
		ip, err := readInput(viper.GetString("project.input"))
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			fmt.Printf("Example File:%s\n", InputParameters.ExampleFile)
			return
		}
		ip.Print()
		study, err := RunStudy(ip, viper.GetInt("project.levels"))
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			return
		}
		study.Print()
		if file := viper.GetString("project.plot"); file != "" {
			if err = study.Plot(file); err != nil {
				fmt.Printf("error: %s\n", err.Error())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(ProjectCmd)
	ProjectCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Dimension\n\t- Degree\n\t- Flags")
	ProjectCmd.Flags().IntP("levels", "l", 3, "number of meshes in the study, each one refinement finer")
	ProjectCmd.Flags().StringP("plot", "p", "", "write a log-log plot of the errors to this PNG file")
	_ = viper.BindPFlag("project.input", ProjectCmd.Flags().Lookup("inputConditionsFile"))
	_ = viper.BindPFlag("project.levels", ProjectCmd.Flags().Lookup("levels"))
	_ = viper.BindPFlag("project.plot", ProjectCmd.Flags().Lookup("plot"))
}

func readInput(file string) (ip *InputParameters.InputParameters, err error) {
	if len(file) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		return
	}
	var data []byte
	if data, err = ioutil.ReadFile(file); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	err = ip.Parse(data)
	return
}

// SineField is Π_d sin(π (x_d - lower_d)/(upper_d - lower_d)) scaled by c+1 in component c.
func SineField(dim, nComp int, lower, upper tensor.Tensor1) (f assembly.Function, grad assembly.Gradient) {
	factors := func(x tensor.Tensor1) (s, c, k tensor.Tensor1) {
		for d := 0; d < dim; d++ {
			k[d] = math.Pi / (upper[d] - lower[d])
			s[d], c[d] = math.Sincos(k[d] * (x[d] - lower[d]))
		}
		return
	}
	f = func(x tensor.Tensor1) []float64 {
		s, _, _ := factors(x)
		prod := 1.
		for d := 0; d < dim; d++ {
			prod *= s[d]
		}
		vals := make([]float64, nComp)
		for c := range vals {
			vals[c] = float64(c+1) * prod
		}
		return vals
	}
	grad = func(x tensor.Tensor1) []tensor.Tensor1 {
		s, co, k := factors(x)
		var g tensor.Tensor1
		for d := 0; d < dim; d++ {
			g[d] = k[d] * co[d]
			for e := 0; e < dim; e++ {
				if e != d {
					g[d] *= s[e]
				}
			}
		}
		grads := make([]tensor.Tensor1, nComp)
		for c := range grads {
			grads[c] = g.Scale(float64(c + 1))
		}
		return grads
	}
	return
}

func RunStudy(ip *InputParameters.InputParameters, levels int) (study *Study, err error) {
	var lower, upper tensor.Tensor1
	copy(lower[:], ip.Lower)
	copy(upper[:], ip.Upper)
	el, err := ip.NewElement()
	if err != nil {
		return
	}
	f, grad := SineField(ip.Dimension, el.NComponents(), lower, upper)
	study = &Study{Title: ip.Title, Degree: ip.Degree}
	base := ip.Refinements
	defer func() { ip.Refinements = base }()
	for l := 0; l < levels; l++ {
		var (
			s      assembly.Setup
			u      utils.Vector
			l2, h1 float64
			start  = time.Now()
		)
		ip.Refinements = base + l
		if s, err = ip.NewSetup(); err != nil {
			return
		}
		if u, err = s.Project(f); err != nil {
			return
		}
		if l2, h1, err = s.Errors(u, f, grad); err != nil {
			return
		}
		h := (upper[0] - lower[0]) / float64(ip.Subdivisions[0]<<uint(ip.Refinements))
		study.Add(h, l2, h1, time.Since(start))
	}
	return
}
