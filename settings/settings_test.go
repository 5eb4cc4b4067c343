package settings

import "testing"

func TestNewRejectsNonPositiveEPS(t *testing.T) {
	if _, err := New(Settings{EPS: 0, SDPPrecision: 1e-9}); err == nil {
		t.Fatalf("expected an error for EPS <= 0")
	}
}

func TestSetEPS(t *testing.T) {
	s := Default()
	out, err := s.Set("EPS", "0.0001")
	if err != nil {
		t.Fatal(err)
	}
	if out.EPS != 0.0001 {
		t.Fatalf("expected EPS 0.0001, got %g", out.EPS)
	}
}

func TestSetBooleanKeys(t *testing.T) {
	s := Default()
	out, err := s.Set("IDENTICAL_VAR_CHECK", "true")
	if err != nil {
		t.Fatal(err)
	}
	if !out.IdenticalVarCheck {
		t.Fatalf("expected IdenticalVarCheck to be set")
	}
	out, err = out.Set("SILENT", "0")
	if err != nil {
		t.Fatal(err)
	}
	if out.Silent {
		t.Fatalf("expected Silent to be false")
	}
}

func TestSetUnrecognisedKey(t *testing.T) {
	if _, err := Default().Set("NOT_A_KEY", "1"); err == nil {
		t.Fatalf("expected an error for an unrecognised setting key")
	}
}

func TestSetRejectsNonPositiveAfterUpdate(t *testing.T) {
	if _, err := Default().Set("EPS", "-1"); err == nil {
		t.Fatalf("expected Set to reject a negative EPS via New's revalidation")
	}
}
