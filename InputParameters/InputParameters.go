package InputParameters

import (
	"fmt"
	"math"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/notargets/fevalues/assembly"
	"github.com/notargets/fevalues/element"
	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/mapping"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title                 string      `yaml:"Title"`
	Dimension             int         `yaml:"Dimension"`
	Degree                int         `yaml:"Degree"`
	Components            int         `yaml:"Components"`
	Directions            [][]float64 `yaml:"Directions"` // Optional, one direction per vector shape function
	QuadratureType        string      `yaml:"QuadratureType"`
	QuadraturePoints      int         `yaml:"QuadraturePoints"`
	Lower                 []float64   `yaml:"Lower"`
	Upper                 []float64   `yaml:"Upper"`
	Subdivisions          []int       `yaml:"Subdivisions"`
	Refinements           int         `yaml:"Refinements"`
	Mapping               string      `yaml:"Mapping"`
	Distortion            float64     `yaml:"Distortion"`
	Flags                 []string    `yaml:"Flags"`
	Workers               int         `yaml:"Workers"`
	DisableCellSimilarity bool        `yaml:"DisableCellSimilarity"`
}

var ExampleFile = `
########################################
Title: "Distorted Q2 box"
Dimension: 2
Degree: 2
Components: 1
QuadratureType: Gauss # Can be "GaussLobatto"
QuadraturePoints: 4
Lower: [0, 0]
Upper: [2, 1]
Subdivisions: [4, 2]
Refinements: 1
Mapping: Q1 # Can be "Cartesian"
Distortion: 0.05
Flags: [values, gradients, jxw_values]
Workers: 4
########################################
`

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.defaults()
	return ip.Validate()
}

func (ip *InputParameters) defaults() {
	if ip.Components == 0 {
		ip.Components = 1
	}
	if ip.QuadraturePoints == 0 {
		ip.QuadraturePoints = ip.Degree + 1
	}
	if ip.QuadratureType == "" {
		ip.QuadratureType = "Gauss"
	}
	if ip.Mapping == "" {
		ip.Mapping = "Q1"
	}
	if ip.Workers == 0 {
		ip.Workers = 1
	}
	if len(ip.Lower) == 0 {
		ip.Lower = make([]float64, ip.Dimension)
	}
	if len(ip.Upper) == 0 {
		ip.Upper = make([]float64, ip.Dimension)
		for d := range ip.Upper {
			ip.Upper[d] = 1
		}
	}
	if len(ip.Subdivisions) == 0 {
		ip.Subdivisions = make([]int, ip.Dimension)
		for d := range ip.Subdivisions {
			ip.Subdivisions[d] = 1
		}
	}
}

func (ip *InputParameters) Validate() error {
	switch {
	case ip.Dimension < 1 || ip.Dimension > tensor.MaxDim:
		return fmt.Errorf("Dimension must be in [1,%d], have %d", tensor.MaxDim, ip.Dimension)
	case ip.Degree < 1:
		return fmt.Errorf("Degree must be >= 1, have %d", ip.Degree)
	case ip.Components < 1:
		return fmt.Errorf("Components must be >= 1, have %d", ip.Components)
	case len(ip.Directions) != 0 && ip.Components != 1:
		return fmt.Errorf("Directions and Components are exclusive")
	case ip.QuadraturePoints < 1:
		return fmt.Errorf("QuadraturePoints must be >= 1, have %d", ip.QuadraturePoints)
	case len(ip.Lower) != ip.Dimension || len(ip.Upper) != ip.Dimension || len(ip.Subdivisions) != ip.Dimension:
		return fmt.Errorf("Lower, Upper and Subdivisions need %d entries", ip.Dimension)
	case ip.Refinements < 0:
		return fmt.Errorf("Refinements must be >= 0, have %d", ip.Refinements)
	case ip.Workers < 1:
		return fmt.Errorf("Workers must be >= 1, have %d", ip.Workers)
	}
	if _, err := ip.UpdateFlags(); err != nil {
		return err
	}
	return nil
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("[%d]\t\t\t\t= Degree\n", ip.Degree)
	fmt.Printf("[%d]\t\t\t\t= Components\n", ip.Components)
	if len(ip.Directions) != 0 {
		fmt.Printf("%v\t= Directions\n", ip.Directions)
	}
	fmt.Printf("[%s(%d)]\t\t\t= Quadrature\n", ip.QuadratureType, ip.QuadraturePoints)
	fmt.Printf("%v -> %v\t= Box\n", ip.Lower, ip.Upper)
	fmt.Printf("%v x %d\t\t= Subdivisions x Refinements\n", ip.Subdivisions, ip.Refinements)
	fmt.Printf("[%s]\t\t\t\t= Mapping\n", ip.Mapping)
	fmt.Printf("%8.5f\t\t= Distortion\n", ip.Distortion)
	fmt.Printf("%v\t= Flags\n", ip.Flags)
	fmt.Printf("[%d]\t\t\t\t= Workers\n", ip.Workers)
	if ip.DisableCellSimilarity {
		fmt.Printf("cell similarity disabled\n")
	}
}

func (ip *InputParameters) UpdateFlags() (types.UpdateFlags, error) {
	return types.ParseUpdateFlags(ip.Flags)
}

func (ip *InputParameters) Options() fe.Options {
	return fe.Options{DisableCellSimilarity: ip.DisableCellSimilarity}
}

func (ip *InputParameters) NewElement() (el *element.Poly, err error) {
	if el, err = element.Q(ip.Dimension, ip.Degree); err != nil {
		return
	}
	switch {
	case len(ip.Directions) != 0:
		return element.Directional(el, ip.Directions)
	case ip.Components > 1:
		return element.System(el, ip.Components)
	}
	return
}

func (ip *InputParameters) NewMapping() (fe.Mapping, error) {
	switch strings.ToLower(ip.Mapping) {
	case "q1":
		return mapping.NewQ1(), nil
	case "cartesian":
		return mapping.NewCartesian(), nil
	}
	return nil, fmt.Errorf("unknown mapping %q, want Q1 or Cartesian", ip.Mapping)
}

func (ip *InputParameters) NewQuadrature() (quadrature.Quadrature, error) {
	return ip.newQuadrature(ip.Dimension)
}

// NewFaceQuadrature is the rule of dimension one less used on faces and subfaces.
func (ip *InputParameters) NewFaceQuadrature() (quadrature.Quadrature, error) {
	if ip.Dimension == 1 {
		return quadrature.Point(), nil
	}
	return ip.newQuadrature(ip.Dimension - 1)
}

func (ip *InputParameters) newQuadrature(dim int) (quadrature.Quadrature, error) {
	switch strings.ToLower(ip.QuadratureType) {
	case "gauss":
		return quadrature.NewGauss(dim, ip.QuadraturePoints)
	case "gausslobatto", "gauss-lobatto":
		return quadrature.NewGaussLobatto(dim, ip.QuadraturePoints)
	}
	return quadrature.Quadrature{}, fmt.Errorf("unknown quadrature %q, want Gauss or GaussLobatto", ip.QuadratureType)
}

// NewMesh builds and refines the box, then bends it by Distortion. The boundary of the
// box does not move.
func (ip *InputParameters) NewMesh() (tria *mesh.Triangulation, err error) {
	var lower, upper tensor.Tensor1
	copy(lower[:], ip.Lower)
	copy(upper[:], ip.Upper)
	if tria, err = mesh.NewHyperRectangle(ip.Dimension, lower, upper, ip.Subdivisions); err != nil {
		return
	}
	for r := 0; r < ip.Refinements; r++ {
		tria.Refine()
	}
	if ip.Distortion != 0 {
		tria.Transform(Distortion(ip.Dimension, ip.Distortion, lower, upper))
	}
	return
}

// Distortion returns a smooth map that moves interior points of [lower, upper] by up to
// amplitude times the box size.
func Distortion(dim int, amplitude float64, lower, upper tensor.Tensor1) func(x tensor.Tensor1) tensor.Tensor1 {
	return func(x tensor.Tensor1) (y tensor.Tensor1) {
		bump := 1.
		for d := 0; d < dim; d++ {
			bump *= math.Sin(math.Pi * (x[d] - lower[d]) / (upper[d] - lower[d]))
		}
		y = x
		for d := 0; d < dim; d++ {
			y[d] += amplitude * (upper[d] - lower[d]) * bump
		}
		return
	}
}

func (ip *InputParameters) NewSetup() (s assembly.Setup, err error) {
	var (
		el   *element.Poly
		tria *mesh.Triangulation
	)
	if el, err = ip.NewElement(); err != nil {
		return
	}
	if tria, err = ip.NewMesh(); err != nil {
		return
	}
	s.Workers = ip.Workers
	s.Options = ip.Options()
	if s.DoFs, err = mesh.NewDoFHandler(tria, el); err != nil {
		return
	}
	if s.Mapping, err = ip.NewMapping(); err != nil {
		return
	}
	s.Quadrature, err = ip.NewQuadrature()
	return
}
