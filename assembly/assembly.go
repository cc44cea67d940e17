// Package assembly runs cell loops over a mesh in parallel. Cells are split into
// contiguous buckets, each worker owns one evaluator and visits its bucket in order, so
// consecutive cells of a structured mesh hit the translation fast path.
package assembly

import (
	"fmt"
	"sync"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/types"
	"github.com/notargets/fevalues/utils"
)

type Setup struct {
	DoFs       *mesh.DoFHandler
	Mapping    fe.Mapping
	Quadrature quadrature.Quadrature
	Workers    int
	Options    fe.Options
}

// CellWork is called for every cell after the evaluator of worker np was reinitialized.
type CellWork func(np int, fev *fe.CellValues, cell *mesh.DoFCell) error

// ForEachCell creates one evaluator per worker and visits all cells.
func (s Setup) ForEachCell(flags types.UpdateFlags, work CellWork) (err error) {
	var (
		cells = s.DoFs.Cells()
		pm    = utils.NewPartitionMap(s.Workers, len(cells))
		NP    = pm.ParallelDegree
		errs  = make([]error, NP)
		fevs  = make([]*fe.CellValues, NP)
	)
	for np := 0; np < NP; np++ {
		if fevs[np], err = fe.NewCellValues(s.Mapping, s.DoFs.FiniteElement(), s.Quadrature, flags, s.Options); err != nil {
			return
		}
	}
	wg := sync.WaitGroup{}
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			fev := fevs[np]
			defer fev.Close()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				if errs[np] = fev.Reinit(cells[k]); errs[np] != nil {
					errs[np] = fmt.Errorf("cell %d: %w", k, errs[np])
					return
				}
				if errs[np] = work(np, fev, cells[k]); errs[np] != nil {
					return
				}
			}
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}

// FaceWork is called for every face that select accepts.
type FaceWork func(np int, fev *fe.FaceValues, cell *mesh.DoFCell, face int) error

// ForEachFace visits the faces of all cells accepted by selectFace with one face
// evaluator per worker.
func (s Setup) ForEachFace(faceQuad quadrature.Quadrature, flags types.UpdateFlags,
	selectFace func(cell *mesh.DoFCell, face int) bool, work FaceWork) (err error) {
	var (
		cells = s.DoFs.Cells()
		pm    = utils.NewPartitionMap(s.Workers, len(cells))
		NP    = pm.ParallelDegree
		errs  = make([]error, NP)
		fevs  = make([]*fe.FaceValues, NP)
		nf    = quadrature.NFaces(s.Quadrature.Dim)
	)
	for np := 0; np < NP; np++ {
		if fevs[np], err = fe.NewFaceValues(s.Mapping, s.DoFs.FiniteElement(),
			quadrature.Collection{faceQuad}, flags, s.Options); err != nil {
			return
		}
	}
	wg := sync.WaitGroup{}
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			fev := fevs[np]
			defer fev.Close()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				for face := 0; face < nf; face++ {
					if !selectFace(cells[k], face) {
						continue
					}
					if errs[np] = fev.Reinit(cells[k], face); errs[np] != nil {
						errs[np] = fmt.Errorf("cell %d face %d: %w", k, face, errs[np])
						return
					}
					if errs[np] = work(np, fev, cells[k], face); errs[np] != nil {
						return
					}
				}
			}
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}
