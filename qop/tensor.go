// Package qop implements the algebraic kernel: complex tensors over a named
// qubit register, the property checks (unitary / Hermitian-predicate /
// measurement-completeness) and the structural operations the WLP
// transformer builds on — dagger, named-qubit contraction, cylindrical
// extension, and two-outcome projective initialization.
package qop

import (
	"fmt"
	"math/cmplx"
)

// EPS is the default numerical tolerance; callers needing a different
// tolerance pass one explicitly to the Check* functions (see settings.Settings).
const EPS = 1e-7

// Tensor is a complex operator on qnum qubits, stored as the 2^qnum x 2^qnum
// matrix of a (2,)^(2*qnum) tensor flattened row-major: axis i (i < qnum) is
// the i-th qubit's row index, axis qnum+i is its column index, both in the
// order of the QVL the tensor is later paired with.
type Tensor struct {
	Qnum int
	Dim  int // 2^Qnum
	Data []complex128 // Dim*Dim, row-major: Data[r*Dim+c]

	flags      Flags
	flagsKnown flagsKnown
}

type flagsKnown struct {
	unitary, hermitianPredicate bool
}

// Flags caches the memoised property set of a Tensor (spec.md §3: "An
// operator carries a memoised set of flags"). A flag is only meaningful once
// the corresponding flagsKnown bit is set — Flags are populated lazily by the
// Check* functions, never speculatively.
type Flags struct {
	Unitary           bool
	HermitianPredicate bool
}

// StructuralError reports a shape/arity/name mismatch: these are caller
// errors, never tolerance failures (spec.md §4.1: "any shape mismatch... is
// a structural error from the caller, not a tolerance failure").
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return "qop: structural error: " + e.Msg }

func structErr(format string, args ...any) error {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}

// NewTensor builds a Tensor from a flat row-major data slice of length
// dim*dim where dim = 2^qnum.
func NewTensor(qnum int, data []complex128) (*Tensor, error) {
	if qnum < 0 {
		return nil, structErr("negative qubit count %d", qnum)
	}
	dim := 1 << uint(qnum)
	if len(data) != dim*dim {
		return nil, structErr("expected %d entries for %d qubits, got %d", dim*dim, qnum, len(data))
	}
	cp := make([]complex128, len(data))
	copy(cp, data)
	return &Tensor{Qnum: qnum, Dim: dim, Data: cp}, nil
}

// At returns the (r, c) matrix entry, 0 <= r, c < Dim.
func (t *Tensor) At(r, c int) complex128 { return t.Data[r*t.Dim+c] }

// Set writes the (r, c) matrix entry and invalidates cached flags.
func (t *Tensor) Set(r, c int, v complex128) {
	t.Data[r*t.Dim+c] = v
	t.flagsKnown = flagsKnown{}
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	cp := make([]complex128, len(t.Data))
	copy(cp, t.Data)
	return &Tensor{Qnum: t.Qnum, Dim: t.Dim, Data: cp, flags: t.flags, flagsKnown: t.flagsKnown}
}

// EyeTensor returns the identity operator on n qubits.
func EyeTensor(n int) *Tensor {
	dim := 1 << uint(n)
	data := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		data[i*dim+i] = 1
	}
	t := &Tensor{Qnum: n, Dim: dim, Data: data}
	t.flags = Flags{Unitary: true, HermitianPredicate: true}
	t.flagsKnown = flagsKnown{unitary: true, hermitianPredicate: true}
	return t
}

// Dagger returns the conjugate transpose M†.
func Dagger(m *Tensor) *Tensor {
	out := &Tensor{Qnum: m.Qnum, Dim: m.Dim, Data: make([]complex128, len(m.Data))}
	d := m.Dim
	for r := 0; r < d; r++ {
		for c := 0; c < d; c++ {
			out.Data[c*d+r] = cmplx.Conj(m.Data[r*d+c])
		}
	}
	return out
}

// matMul returns a*b, both Dim x Dim.
func matMul(a, b *Tensor) *Tensor {
	d := a.Dim
	out := make([]complex128, d*d)
	for r := 0; r < d; r++ {
		for k := 0; k < d; k++ {
			v := a.Data[r*d+k]
			if v == 0 {
				continue
			}
			for c := 0; c < d; c++ {
				out[r*d+c] += v * b.Data[k*d+c]
			}
		}
	}
	return &Tensor{Qnum: a.Qnum, Dim: d, Data: out}
}

// Sub returns a-b (exported for the order decider's C_i = B_j - A_i terms).
func Sub(a, b *Tensor) *Tensor {
	out := make([]complex128, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] - b.Data[i]
	}
	return &Tensor{Qnum: a.Qnum, Dim: a.Dim, Data: out}
}

// Scale returns s*a (exported for the order decider's Σ p_i C_i combination).
func Scale(a *Tensor, s float64) *Tensor {
	out := make([]complex128, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] * complex(s, 0)
	}
	return &Tensor{Qnum: a.Qnum, Dim: a.Dim, Data: out}
}

// Add returns a+b (exported; matAdd is used internally where callers already
// know both operands share Qnum/Dim).
func Add(a, b *Tensor) *Tensor { return matAdd(a, b) }

// matAdd returns a+b.
func matAdd(a, b *Tensor) *Tensor {
	out := make([]complex128, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] + b.Data[i]
	}
	return &Tensor{Qnum: a.Qnum, Dim: a.Dim, Data: out}
}

// infNorm returns the entrywise sup-norm (max modulus) of m, used throughout
// the kernel's tolerance checks in place of an operator-norm estimate — the
// spec's check functions are all stated as ‖·‖_∞ entrywise bounds.
func infNorm(m *Tensor) float64 {
	max := 0.0
	for _, v := range m.Data {
		if a := cmplx.Abs(v); a > max {
			max = a
		}
	}
	return max
}

func infNormDiff(a, b *Tensor) float64 {
	max := 0.0
	for i := range a.Data {
		if d := cmplx.Abs(a.Data[i] - b.Data[i]); d > max {
			max = d
		}
	}
	return max
}

// Violation is a tolerance-check failure witness: the sup-norm slack by
// which the check missed, and a human-readable reason.
type Violation struct {
	Reason string
	Slack  float64
}

func (v *Violation) String() string {
	return fmt.Sprintf("%s (slack %.3g)", v.Reason, v.Slack)
}

// CheckUnitary reports whether ‖MM† − I‖_∞ ≤ eps.
func CheckUnitary(m *Tensor, eps float64) (bool, *Violation) {
	prod := matMul(m, Dagger(m))
	id := EyeTensor(m.Qnum)
	slack := infNormDiff(prod, id)
	if slack <= eps {
		m.flags.Unitary = true
		m.flagsKnown.unitary = true
		return true, nil
	}
	return false, &Violation{Reason: "MM† deviates from I", Slack: slack}
}

// CheckHermitianPredicate reports whether ‖M − M†‖_∞ ≤ eps and every
// eigenvalue of M lies in [−eps, 1+eps].
func CheckHermitianPredicate(m *Tensor, eps float64) (bool, *Violation) {
	dag := Dagger(m)
	slack := infNormDiff(m, dag)
	if slack > eps {
		return false, &Violation{Reason: "M is not Hermitian within tolerance", Slack: slack}
	}
	eigs := Eigenvalues(m)
	worst := 0.0
	for _, ev := range eigs {
		if d := -eps - ev; d > worst {
			worst = d
		}
		if d := ev - (1 + eps); d > worst {
			worst = d
		}
	}
	if worst > 0 {
		return false, &Violation{Reason: "an eigenvalue of M lies outside [0,1] within tolerance", Slack: worst}
	}
	m.flags.HermitianPredicate = true
	m.flagsKnown.hermitianPredicate = true
	return true, nil
}

// Measurement is a two-outcome projective measurement on qnum qubits: a pair
// (M0, M1), each qnum-qubit operators, representing the leading
// outcome-indexed axis of spec.md's rank-(2n+1) measurement tensor.
type Measurement struct {
	Qnum   int
	M0, M1 *Tensor
}

// NewMeasurement builds a Measurement, requiring M0 and M1 to act on the
// same qubit count.
func NewMeasurement(m0, m1 *Tensor) (*Measurement, error) {
	if m0.Qnum != m1.Qnum {
		return nil, structErr("measurement outcomes act on %d and %d qubits", m0.Qnum, m1.Qnum)
	}
	return &Measurement{Qnum: m0.Qnum, M0: m0, M1: m1}, nil
}

// CheckMeasurement reports whether M0†M0 + M1†M1 = I within eps.
func CheckMeasurement(m *Measurement, eps float64) (bool, *Violation) {
	sum := matAdd(matMul(Dagger(m.M0), m.M0), matMul(Dagger(m.M1), m.M1))
	id := EyeTensor(m.Qnum)
	slack := infNormDiff(sum, id)
	if slack <= eps {
		return true, nil
	}
	return false, &Violation{Reason: "M0†M0 + M1†M1 deviates from I", Slack: slack}
}

// Equal reports whether a and b agree within eps (used by the operator
// store's dedup check, spec.md §4.2).
func Equal(a, b *Tensor, eps float64) bool {
	if a.Qnum != b.Qnum {
		return false
	}
	return infNormDiff(a, b) <= eps
}

// P0, P1 are the single-qubit computational-basis projectors. HermitianInit
// uses P0 (its second Kraus term is ket1bra0, not P1); the standard library
// (oplib) uses both.
func P0() *Tensor {
	t, _ := NewTensor(1, []complex128{1, 0, 0, 0})
	return t
}

func P1() *Tensor {
	t, _ := NewTensor(1, []complex128{0, 0, 0, 1})
	return t
}

// ket1bra0 is |1⟩⟨0|, the reset-to-|0⟩ Kraus operator HermitianInit's
// second term uses alongside P0 (NQPV_la.py's hermitian_init): contracting
// with it via M·H·M† yields ⟨0|H|0⟩·I on the initialized qubit, independent
// of H's diagonal entries there, which is what "initialize to |0⟩"
// actually means.
func ket1bra0() *Tensor {
	t, _ := NewTensor(1, []complex128{0, 0, 1, 0})
	return t
}
