package fe

import (
	"sync/atomic"
)

// Similarity classifies a cell relative to the previously loaded one.
type Similarity uint8

const (
	// SimilarityNone means unrelated cells, everything is recomputed
	SimilarityNone Similarity = iota
	// SimilarityTranslation means the cells differ by a translation, only quadrature
	// point positions change
	SimilarityTranslation
	// SimilaritySame means the very same cell, nothing is recomputed
	SimilaritySame
)

func (s Similarity) String() string {
	switch s {
	case SimilarityNone:
		return "none"
	case SimilarityTranslation:
		return "translation"
	case SimilaritySame:
		return "same"
	}
	return "invalid"
}

type trackerState uint8

const (
	trackerUnset trackerState = iota
	trackerLoaded
)

// CellTracker remembers the cell whose data is in the caches and decides how much of it
// can be reused for the next cell. It holds a subscription to the change notifications
// of the loaded cell's triangulation; any notification forces it back to unset.
type CellTracker struct {
	state          trackerState
	cell           Cell
	face, subface  int
	source         ChangeNotifier
	cancel         func()
	invalidated    atomic.Bool
	disabled       bool
	faceEvaluation bool
}

func (t *CellTracker) Loaded() bool {
	return t.state == trackerLoaded && !t.invalidated.Load()
}

func (t *CellTracker) Cell() Cell {
	if !t.Loaded() {
		return nil
	}
	return t.cell
}

// Classify compares the incoming cell with the loaded one. The mapping decides about
// translations; the tracker downgrades to none when the face differs, when the
// optimisation is disabled or when the loaded cell was invalidated.
func (t *CellTracker) Classify(cell Cell, face, subface int, mapping Mapping) (sim Similarity) {
	if !t.Loaded() || t.disabled {
		return SimilarityNone
	}
	if face != t.face || subface != t.subface {
		return SimilarityNone
	}
	sim = mapping.CellSimilarity(t.cell, cell)
	if sim == SimilaritySame && t.cell != cell {
		sim = SimilarityNone
	}
	if t.faceEvaluation && sim == SimilarityTranslation {
		sim = SimilarityNone
	}
	return
}

// Load records cell as the one in the caches, subscribing to its triangulation when it
// differs from the current notification source.
func (t *CellTracker) Load(cell Cell, face, subface int) {
	src := cell.Triangulation()
	if src != t.source {
		t.unsubscribe()
		if src != nil {
			t.cancel = src.Subscribe(t.invalidate)
		}
		t.source = src
	}
	t.cell, t.face, t.subface = cell, face, subface
	t.invalidated.Store(false)
	t.state = trackerLoaded
}

// Reset forgets the loaded cell, the subscription is kept for the next Load.
func (t *CellTracker) Reset() {
	t.state = trackerUnset
	t.cell = nil
}

func (t *CellTracker) Close() {
	t.Reset()
	t.unsubscribe()
}

func (t *CellTracker) invalidate() {
	t.invalidated.Store(true)
}

func (t *CellTracker) unsubscribe() {
	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = nil
	t.source = nil
}
