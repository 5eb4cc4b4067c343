package order

import (
	"math"

	"nqpv/qop"
	"nqpv/qpre"
	"nqpv/settings"
)

// sdpMaxIters bounds the projected-gradient ascent below; it is not a
// tolerance knob, only an iteration budget, so it is not user-configurable.
const sdpMaxIters = 500

// sdpCheck implements spec.md §4.5's set-A branch: find Hermitian X ⪰ 0 with
// Re tr((B_j − A_i) X) ≤ −EPS for every A_i ∈ A.
//
// By minimax duality (both the density-operator set and the probability
// simplex over A are convex and compact, and the objective is bilinear in
// (X, p)):
//
//	min_X max_i tr(C_i X)  =  max_p λ_min( Σ_i p_i C_i )
//
// where C_i = B_j − A_i and p ranges over the probability simplex on
// |A| entries. The left side is feasible (≤ −EPS) exactly when the
// spec's SDP is feasible, so the search is a projected-gradient ascent on p
// of the concave function λ_min(Σ p_i C_i), evaluated via qop.MinEigen (the
// same gonum/mat eigendecomposition the singleton-A case uses). The
// maximizing p's eigenvector IS the pure-state density witness.
func sdpCheck(a qpre.Qpre, bj *qop.Tensor, cfg settings.Settings) (Result, error) {
	pairs := a.Pairs()
	k := len(pairs)
	cs := make([]*qop.Tensor, k)
	for i, p := range pairs {
		cs[i] = qop.Sub(bj, p.Op)
	}

	p := make([]float64, k)
	for i := range p {
		p[i] = 1.0 / float64(k)
	}

	var bestVal float64 = math.Inf(-1)
	var bestVec []complex128

	for iter := 1; iter <= sdpMaxIters; iter++ {
		combined := combine(cs, p)
		val, vec := qop.MinEigen(combined)
		if val > bestVal {
			bestVal = val
			bestVec = vec
		}
		if val > -cfg.SDPPrecision {
			// Found a p for which λ_min already exceeds −SDPPrecision: the
			// feasibility supremum is > −SDPPrecision, so no X can satisfy every
			// constraint simultaneously. B_j passes.
			return Result{Holds: true}, nil
		}
		grad := make([]float64, k)
		for i := range grad {
			q := qop.QuadForm(vec, cs[i])
			grad[i] = real(q)
		}
		lr := 1.0 / math.Sqrt(float64(iter))
		for i := range p {
			p[i] += lr * grad[i]
		}
		p = projectSimplex(p)
	}

	if bestVal <= -cfg.SDPPrecision {
		// The feasibility supremum is (within the search budget) at or
		// below −SDPPrecision: an X achieving it exists — the minimizer of
		// tr(C(p*) X) over densities is the pure state |v*><v*|.
		d := bj.Dim
		rho := densityFromVector(bestVec, d)
		return Result{Holds: false, Witness: &Witness{Rho: rho, Slack: -bestVal}}, nil
	}
	return Result{}, &NumericError{Msg: "SDP feasibility search did not converge within its iteration budget; consider relaxing EPS or SDP_precision"}
}

func combine(cs []*qop.Tensor, p []float64) *qop.Tensor {
	acc := qop.Scale(cs[0], p[0])
	for i := 1; i < len(cs); i++ {
		acc = qop.Add(acc, qop.Scale(cs[i], p[i]))
	}
	return acc
}

// projectSimplex projects x onto the probability simplex {p : p_i >= 0, sum
// p_i = 1} using the standard sort-and-threshold algorithm.
func projectSimplex(x []float64) []float64 {
	n := len(x)
	u := append([]float64(nil), x...)
	sortDesc(u)
	cumsum := 0.0
	rho := -1
	for i := 0; i < n; i++ {
		cumsum += u[i]
		t := (cumsum - 1) / float64(i+1)
		if u[i]-t > 0 {
			rho = i
		}
	}
	cumsum = 0.0
	for i := 0; i <= rho; i++ {
		cumsum += u[i]
	}
	theta := (cumsum - 1) / float64(rho+1)
	out := make([]float64, n)
	for i, xi := range x {
		v := xi - theta
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out
}

func sortDesc(x []float64) {
	for i := 1; i < len(x); i++ {
		for j := i; j > 0 && x[j-1] < x[j]; j-- {
			x[j-1], x[j] = x[j], x[j-1]
		}
	}
}
