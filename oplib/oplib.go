// Package oplib injects the standard gate, projector and measurement
// library of spec.md §6 into a root scope, the way ntru/presets.go builds a
// fixed table of named, pre-validated constants rather than constructing
// them ad hoc at every call site.
package oplib

import (
	"fmt"
	"math"

	"nqpv/opstore"
	"nqpv/qop"
)

func tensor(qnum int, data []complex128) *qop.Tensor {
	t, err := qop.NewTensor(qnum, data)
	if err != nil {
		panic(fmt.Sprintf("oplib: invalid built-in tensor: %v", err))
	}
	return t
}

func scaled(t *qop.Tensor, s float64) *qop.Tensor {
	return qop.Scale(t, s)
}

// Inject installs the standard library into root: gates I, X, Y, Z, H, CX,
// CH, SWAP, CCX; projectors P0, P1, Pp, Pm plus halved variants and the
// two-qubit equality/inequality predicates; and measurements M01, M10, Mpm,
// Mmp, MEq01_2.
func Inject(root *opstore.Scope) error {
	sqrt2inv := complex(1/math.Sqrt2, 0)

	gateI := qop.EyeTensor(1)
	gateX := tensor(1, []complex128{0, 1, 1, 0})
	gateY := tensor(1, []complex128{0, -1i, 1i, 0})
	gateZ := tensor(1, []complex128{1, 0, 0, -1})
	gateH := tensor(1, []complex128{sqrt2inv, sqrt2inv, sqrt2inv, -sqrt2inv})

	gateCX := tensor(2, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	})
	gateCH := tensor(2, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, sqrt2inv, sqrt2inv,
		0, 0, sqrt2inv, -sqrt2inv,
	})
	gateSWAP := tensor(2, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
	ccxData := make([]complex128, 64)
	for i := 0; i < 8; i++ {
		ccxData[i*8+i] = 1
	}
	// Toffoli: swap |110> <-> |111> (indices 6, 7).
	ccxData[6*8+6], ccxData[6*8+7] = 0, 1
	ccxData[7*8+7], ccxData[7*8+6] = 0, 1
	gateCCX := tensor(3, ccxData)

	p0 := qop.P0()
	p1 := qop.P1()
	pp := tensor(1, []complex128{0.5, 0.5, 0.5, 0.5})
	pm := tensor(1, []complex128{0.5, -0.5, -0.5, 0.5})
	halfP0 := scaled(p0, 0.5)
	halfP1 := scaled(p1, 0.5)
	halfPp := scaled(pp, 0.5)
	halfPm := scaled(pm, 0.5)

	eq01 := tensor(2, []complex128{
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 1,
	})
	neq01 := tensor(2, []complex128{
		0, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
	})

	m01, err := qop.NewMeasurement(p0, p1)
	if err != nil {
		return err
	}
	m10, err := qop.NewMeasurement(p1, p0)
	if err != nil {
		return err
	}
	mpm, err := qop.NewMeasurement(pp, pm)
	if err != nil {
		return err
	}
	mmp, err := qop.NewMeasurement(pm, pp)
	if err != nil {
		return err
	}
	mEq, err := qop.NewMeasurement(eq01, neq01)
	if err != nil {
		return err
	}

	ops := map[string]*qop.Tensor{
		"I": gateI, "X": gateX, "Y": gateY, "Z": gateZ, "H": gateH,
		"CX": gateCX, "CH": gateCH, "SWAP": gateSWAP, "CCX": gateCCX,
		"P0": p0, "P1": p1, "Pp": pp, "Pm": pm,
		"HalfP0": halfP0, "HalfP1": halfP1, "HalfPp": halfPp, "HalfPm": halfPm,
		"EQ01": eq01, "NEQ01": neq01,
	}
	for name, op := range ops {
		root.Bind(name, opstore.Value{Op: op})
	}

	meas := map[string]*qop.Measurement{
		"M01": m01, "M10": m10, "Mpm": mpm, "Mmp": mmp, "MEq01_2": mEq,
	}
	for name, m := range meas {
		root.Bind(name, opstore.Value{Mea: m})
	}
	return nil
}
