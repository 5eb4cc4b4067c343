package opstore

import (
	"testing"

	"nqpv/qop"
)

func TestBindLookupShadowing(t *testing.T) {
	root := NewRoot("root")
	root.Bind("X", Value{Op: qop.EyeTensor(1)})
	child := root.NewChild("child")

	v, ok := child.Lookup("X")
	if !ok || v.Op == nil {
		t.Fatalf("expected X to be visible from the child via the root")
	}

	shadow := qop.EyeTensor(1)
	shadow.Set(0, 0, -1)
	child.Bind("X", Value{Op: shadow})

	v, ok = child.Lookup("X")
	if !ok {
		t.Fatalf("expected a binding for X")
	}
	if !qop.Equal(v.Op, shadow, 1e-9) {
		t.Fatalf("expected the child's own binding to shadow the root's")
	}
	rootV, _ := root.Lookup("X")
	if !qop.Equal(rootV.Op, qop.EyeTensor(1), 1e-9) {
		t.Fatalf("expected the root's own binding to be unaffected by the child's shadowing bind")
	}
}

func TestAppendIdenticalVarCheckReusesName(t *testing.T) {
	root := NewRoot("root")
	n1 := root.Append(Value{Op: qop.EyeTensor(1)}, 1e-9, true)
	n2 := root.Append(Value{Op: qop.EyeTensor(1)}, 1e-9, true)
	if n1 != n2 {
		t.Fatalf("expected identical-value appends to reuse a name, got %q and %q", n1, n2)
	}
	n3 := root.Append(Value{Op: qop.P0()}, 1e-9, true)
	if n3 == n1 {
		t.Fatalf("expected a distinct value to get a new name")
	}
}

func TestAppendWithoutIdenticalVarCheckAlwaysAllocates(t *testing.T) {
	root := NewRoot("root")
	n1 := root.Append(Value{Op: qop.EyeTensor(1)}, 1e-9, false)
	n2 := root.Append(Value{Op: qop.EyeTensor(1)}, 1e-9, false)
	if n1 == n2 {
		t.Fatalf("expected two distinct names when identicalVarCheck is off, got %q twice", n1)
	}
}

func TestInjectCopiesBindings(t *testing.T) {
	src := NewRoot("src")
	src.Bind("H", Value{Op: qop.EyeTensor(1)})
	dst := NewRoot("dst")
	dst.Inject(src)
	if _, ok := dst.Lookup("H"); !ok {
		t.Fatalf("expected Inject to copy src's bindings into dst")
	}
}

func TestRemove(t *testing.T) {
	root := NewRoot("root")
	root.Bind("X", Value{Op: qop.EyeTensor(1)})
	root.Remove("X")
	if root.Contains("X") {
		t.Fatalf("expected X to be removed")
	}
}
