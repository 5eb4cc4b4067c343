// Package settings holds the verifier's five recognised configuration keys
// (spec.md §6), validated the way the teacher validates its own parameter
// structs (ntru.NewParams, credential.NewParams): a constructor that returns
// either a valid value or an error, never a value that can fail validation
// later.
package settings

import "fmt"

// Settings is the configuration object of spec.md §6.
type Settings struct {
	EPS               float64
	SDPPrecision      float64
	Silent            bool
	IdenticalVarCheck bool
	OptPreserving     bool
}

// Default returns the documented defaults: EPS=1e-7, SDPPrecision=1e-9, and
// every boolean flag off.
func Default() Settings {
	return Settings{EPS: 1e-7, SDPPrecision: 1e-9}
}

// New validates s, requiring EPS > 0 and SDPPrecision > 0 (spec.md §6).
func New(s Settings) (Settings, error) {
	if s.EPS <= 0 {
		return Settings{}, fmt.Errorf("settings: EPS must be > 0, got %g", s.EPS)
	}
	if s.SDPPrecision <= 0 {
		return Settings{}, fmt.Errorf("settings: SDP_precision must be > 0, got %g", s.SDPPrecision)
	}
	return s, nil
}

// Set applies a single "setting KEY := value end" command (spec.md §6) to a
// copy of s, recognising exactly the five documented keys.
func (s Settings) Set(key string, value string) (Settings, error) {
	out := s
	switch key {
	case "EPS":
		v, err := parseFloat(value)
		if err != nil {
			return s, err
		}
		out.EPS = v
	case "SDP_precision":
		v, err := parseFloat(value)
		if err != nil {
			return s, err
		}
		out.SDPPrecision = v
	case "SILENT":
		v, err := parseBool(value)
		if err != nil {
			return s, err
		}
		out.Silent = v
	case "IDENTICAL_VAR_CHECK":
		v, err := parseBool(value)
		if err != nil {
			return s, err
		}
		out.IdenticalVarCheck = v
	case "OPT_PRESERVING":
		v, err := parseBool(value)
		if err != nil {
			return s, err
		}
		out.OptPreserving = v
	default:
		return s, fmt.Errorf("settings: unrecognised key %q", key)
	}
	return New(out)
}

func parseFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%g", &v)
	if err != nil {
		return 0, fmt.Errorf("settings: invalid number %q: %w", s, err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "True", "1":
		return true, nil
	case "false", "False", "0":
		return false, nil
	default:
		return false, fmt.Errorf("settings: invalid boolean %q", s)
	}
}
