package control

// AffineFeedback is the output-feedback law u = κ(ℓ - ℓ̄) + v̄ around the
// equilibrium pair (ℓ̄, v̄).
type AffineFeedback struct {
	Kappa  float64
	BarEll float64
	BarV   float64
}

func NewAffineFeedback(kappa, barEll, barV float64) *AffineFeedback {
	return &AffineFeedback{
		Kappa:  kappa,
		BarEll: barEll,
		BarV:   barV,
	}
}

func (a *AffineFeedback) Control(length float64) float64 {
	return a.Kappa*(length-a.BarEll) + a.BarV
}

func (a *AffineFeedback) Name() string { return TypeAffine }

func (a *AffineFeedback) GetParams() map[string]float64 {
	return map[string]float64{
		"kappa":   a.Kappa,
		"bar_ell": a.BarEll,
		"bar_v":   a.BarV,
	}
}
