package qvar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustQVL(t *testing.T, names ...string) QVL {
	t.Helper()
	q, err := NewQVL(names)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestNewQVLRejectsDuplicates(t *testing.T) {
	if _, err := NewQVL([]string{"q0", "q1", "q0"}); err == nil {
		t.Fatalf("expected an error for a duplicate qubit name")
	}
}

func TestJoinAppendsOnlyNewNames(t *testing.T) {
	a := mustQVL(t, "q0", "q1")
	b := mustQVL(t, "q1", "q2")
	got := Join(a, b).Names()
	want := []string{"q0", "q1", "q2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Join mismatch (-want +got):\n%s", diff)
	}
}

func TestCover(t *testing.T) {
	a := mustQVL(t, "q0", "q1", "q2")
	b := mustQVL(t, "q1", "q2")
	if !Cover(a, b) {
		t.Fatalf("expected a to cover b")
	}
	c := mustQVL(t, "q3")
	if Cover(a, c) {
		t.Fatalf("did not expect a to cover c")
	}
}

func TestSubstitute(t *testing.T) {
	v := mustQVL(t, "q0", "q1", "q2")
	got := v.Substitute(map[string]string{"q1": "r1"}).Names()
	want := []string{"q0", "r1", "q2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Substitute mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	if _, err := NewRegister([]string{"q0", "q0"}); err == nil {
		t.Fatalf("expected an error for a duplicate register name")
	}
}

func TestRegisterIndexOf(t *testing.T) {
	reg, err := NewRegister([]string{"q0", "q1", "q2"})
	if err != nil {
		t.Fatal(err)
	}
	if reg.IndexOf("q1") != 1 {
		t.Fatalf("expected q1 at index 1, got %d", reg.IndexOf("q1"))
	}
	if reg.IndexOf("missing") != -1 {
		t.Fatalf("expected -1 for a name not in the register")
	}
}

func TestQVLMask(t *testing.T) {
	reg, err := NewRegister([]string{"q0", "q1", "q2"})
	if err != nil {
		t.Fatal(err)
	}
	v := mustQVL(t, "q0", "q2")
	mask, err := v.Mask(reg)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []bool{true, false, true} {
		if mask.Test(uint(i)) != want {
			t.Fatalf("mask bit %d: want %v, got %v", i, want, mask.Test(uint(i)))
		}
	}
}
