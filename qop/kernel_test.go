package qop

import (
	"math"
	"testing"

	"nqpv/qvar"
)

func reg(t *testing.T, names ...string) qvar.Register {
	t.Helper()
	r, err := qvar.NewRegister(names)
	if err != nil {
		t.Fatalf("NewRegister: %v", err)
	}
	return r
}

func ql(t *testing.T, names ...string) qvar.QVL {
	t.Helper()
	v, err := qvar.NewQVL(names)
	if err != nil {
		t.Fatalf("NewQVL: %v", err)
	}
	return v
}

func pauliX() *Tensor {
	t, _ := NewTensor(1, []complex128{0, 1, 1, 0})
	return t
}

func hadamard() *Tensor {
	s := complex(1/math.Sqrt2, 0)
	t, _ := NewTensor(1, []complex128{s, s, s, -s})
	return t
}

func TestCheckUnitary(t *testing.T) {
	ok, v := CheckUnitary(hadamard(), EPS)
	if !ok {
		t.Fatalf("hadamard should be unitary: %v", v)
	}
	notU, _ := NewTensor(1, []complex128{1, 1, 0, 1})
	ok, _ = CheckUnitary(notU, EPS)
	if ok {
		t.Fatalf("non-unitary matrix accepted")
	}
}

func TestCheckHermitianPredicate(t *testing.T) {
	ok, v := CheckHermitianPredicate(P0(), EPS)
	if !ok {
		t.Fatalf("P0 should be a Hermitian predicate: %v", v)
	}
	ok, v = CheckHermitianPredicate(EyeTensor(2), EPS)
	if !ok {
		t.Fatalf("I should be a Hermitian predicate: %v", v)
	}
	notHerm, _ := NewTensor(1, []complex128{0, 1, 0, 0}) // |0><1|
	ok, _ = CheckHermitianPredicate(notHerm, EPS)
	if ok {
		t.Fatalf("|0><1| should not be a Hermitian predicate")
	}
}

func TestCheckMeasurement(t *testing.T) {
	m, err := NewMeasurement(P0(), P1())
	if err != nil {
		t.Fatal(err)
	}
	ok, v := CheckMeasurement(m, EPS)
	if !ok {
		t.Fatalf("{P0,P1} should be a valid measurement: %v", v)
	}
}

// TestExtendContractCommute is spec.md §8 property 2: hermitian_contract
// on an already-extended operator equals the extension of the localized
// contraction, padded with identity elsewhere.
func TestExtendContractCommute(t *testing.T) {
	full := ql(t, "q0", "q1")
	sub := ql(t, "q0")

	h := P0() // Hermitian predicate on q0 alone
	extended, err := HermitianExtend(full, h, sub)
	if err != nil {
		t.Fatal(err)
	}

	u := pauliX()
	lhs, err := HermitianContract(extended, full, sub, u)
	if err != nil {
		t.Fatal(err)
	}

	localized, err := HermitianContract(h, sub, sub, u)
	if err != nil {
		t.Fatal(err)
	}
	rhs, err := HermitianExtend(full, localized, sub)
	if err != nil {
		t.Fatal(err)
	}

	if !Equal(lhs, rhs, EPS) {
		t.Fatalf("extension/contraction commutation failed:\nlhs=%v\nrhs=%v", lhs.Data, rhs.Data)
	}
}

// TestInitIdempotent is spec.md §8 property 3.
func TestInitIdempotent(t *testing.T) {
	v := ql(t, "q0")
	h := EyeTensor(1)
	once, err := HermitianInit(v, h, v)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := HermitianInit(v, once, v)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(once, twice, EPS) {
		t.Fatalf("hermitian_init is not idempotent:\nonce=%v\ntwice=%v", once.Data, twice.Data)
	}
}

// TestHermitianInitResetsRegardlessOfDiagonal catches the Kraus-operator
// regression where HermitianInit used |1⟩⟨1| (a projector, dephasing the
// input) instead of |1⟩⟨0| (the reset-to-|0⟩ Kraus operator): on an H that
// is already diagonal, dephasing is a no-op and would silently pass through
// H unchanged, while a correct reset collapses every diagonal H to
// ⟨0|H|0⟩·I.
func TestHermitianInitResetsRegardlessOfDiagonal(t *testing.T) {
	v := ql(t, "q0")
	h, err := NewTensor(1, []complex128{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	got, err := HermitianInit(v, h, v)
	if err != nil {
		t.Fatal(err)
	}
	want := EyeTensor(1)
	if !Equal(got, want, EPS) {
		t.Fatalf("hermitian_init should reset to ⟨0|H|0⟩·I = I, got %v", got.Data)
	}
}

func TestAddHermitianExtends(t *testing.T) {
	pa, err := NewPair(P0(), ql(t, "q0"))
	if err != nil {
		t.Fatal(err)
	}
	pb, err := NewPair(P1(), ql(t, "q1"))
	if err != nil {
		t.Fatal(err)
	}
	sum, err := AddHermitian(pa, pb)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Vars.Len() != 2 {
		t.Fatalf("expected join over 2 qubits, got %d", sum.Vars.Len())
	}
}

func TestRegisterValidation(t *testing.T) {
	r := reg(t, "q0", "q1")
	v := ql(t, "q0", "q2")
	if err := v.ValidateAgainst(r); err == nil {
		t.Fatalf("expected structural error for qubit not in register")
	}
}
