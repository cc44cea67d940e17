package tensor

/*
	Covariant push forward of reference derivatives. With jinv = (dx/dξ)^-1, a reference
	derivative index a becomes a physical index i through Σ_a (.)_a jinv[a][i].
	The "Tail" forms leave the leading index alone and transform the remaining ones,
	which is what the Jacobian derivative tensors need: their first index is the
	component of the mapped position.
*/

func (v Tensor1) Covariant(jinv Tensor2) (r Tensor1) {
	for i := 0; i < MaxDim; i++ {
		for a := 0; a < MaxDim; a++ {
			r[i] += v[a] * jinv[a][i]
		}
	}
	return
}

func (t Tensor2) Covariant(jinv Tensor2) (r Tensor2) {
	var tmp Tensor2
	for a := 0; a < MaxDim; a++ {
		tmp[a] = t[a].Covariant(jinv)
	}
	for i := 0; i < MaxDim; i++ {
		for a := 0; a < MaxDim; a++ {
			if jinv[a][i] == 0 {
				continue
			}
			r[i] = r[i].AddScaled(jinv[a][i], tmp[a])
		}
	}
	return
}

func (t Tensor3) Covariant(jinv Tensor2) (r Tensor3) {
	var tmp Tensor3
	for a := 0; a < MaxDim; a++ {
		tmp[a] = t[a].Covariant(jinv)
	}
	for i := 0; i < MaxDim; i++ {
		for a := 0; a < MaxDim; a++ {
			if jinv[a][i] == 0 {
				continue
			}
			r[i] = r[i].AddScaled(jinv[a][i], tmp[a])
		}
	}
	return
}

func (t Tensor4) Covariant(jinv Tensor2) (r Tensor4) {
	var tmp Tensor4
	for a := 0; a < MaxDim; a++ {
		tmp[a] = t[a].Covariant(jinv)
	}
	for i := 0; i < MaxDim; i++ {
		for a := 0; a < MaxDim; a++ {
			if jinv[a][i] == 0 {
				continue
			}
			r[i] = r[i].AddScaled(jinv[a][i], tmp[a])
		}
	}
	return
}

func (t Tensor3) CovariantTail(jinv Tensor2) (r Tensor3) {
	for i := range t {
		r[i] = t[i].Covariant(jinv)
	}
	return
}

func (t Tensor4) CovariantTail(jinv Tensor2) (r Tensor4) {
	for i := range t {
		r[i] = t[i].Covariant(jinv)
	}
	return
}

func (t Tensor5) CovariantTail(jinv Tensor2) (r Tensor5) {
	for i := range t {
		r[i] = t[i].Covariant(jinv)
	}
	return
}
