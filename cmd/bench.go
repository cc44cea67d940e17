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
	"time"

	"github.com/notargets/fevalues/InputParameters"
	"github.com/notargets/fevalues/assembly"
	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time cell loops with and without reuse of similar cells",
	Long: `
Reinitializes an evaluator on every cell of the input mesh with the update flags of
the input file, once with cell similarity detection and once without,

fevalues bench -I input.yaml -n 10`,
	Run: func(cmd *cobra.Command, args []string) {
		ip, err := readInput(viper.GetString("bench.input"))
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			fmt.Printf("Example File:%s\n", InputParameters.ExampleFile)
			return
		}
		ip.Print()
		s, err := ip.NewSetup()
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			return
		}
		flags, _ := ip.UpdateFlags()
		for _, disabled := range []bool{false, true} {
			s.Options.DisableCellSimilarity = disabled
			res, err := Bench(s, flags, viper.GetInt("bench.repeat"))
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				return
			}
			fmt.Printf("similarity disabled = %v: %v\n", disabled, res)
		}
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
	BenchCmd.Flags().IntP("repeat", "n", 5, "number of sweeps over the mesh")
	_ = viper.BindPFlag("bench.input", BenchCmd.Flags().Lookup("inputConditionsFile"))
	_ = viper.BindPFlag("bench.repeat", BenchCmd.Flags().Lookup("repeat"))
}

type BenchResult struct {
	Reinits      int
	Translations int
	Elapsed      time.Duration
	Instructions uint64 // Zero where hardware counters are unavailable
}

func (r BenchResult) String() string {
	per := time.Duration(0)
	if r.Reinits != 0 {
		per = r.Elapsed / time.Duration(r.Reinits)
	}
	str := fmt.Sprintf("%d reinits, %d translations, %v (%v per cell)", r.Reinits, r.Translations, r.Elapsed, per)
	if r.Instructions != 0 {
		str += fmt.Sprintf(", %d instructions", r.Instructions)
	}
	return str
}

// Bench sweeps repeat times over all cells of s and counts reinitializations that could
// reuse the previous cell.
func Bench(s assembly.Setup, flags types.UpdateFlags, repeat int) (res BenchResult, err error) {
	var (
		counts = make([][2]int, s.Workers+1)
		start  = time.Now()
	)
	sweep := func() error {
		for r := 0; r < repeat; r++ {
			if err := s.ForEachCell(flags, func(np int, fev *fe.CellValues, cell *mesh.DoFCell) error {
				counts[np][0]++
				if fev.CellSimilarity() == fe.SimilarityTranslation {
					counts[np][1]++
				}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}
	if res.Instructions, err = countInstructions(sweep); err != nil {
		return
	}
	res.Elapsed = time.Since(start)
	for _, c := range counts {
		res.Reinits += c[0]
		res.Translations += c[1]
	}
	return
}
