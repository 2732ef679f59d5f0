package control

// OpenLoop ignores the measurement and returns a fixed rest length.
type OpenLoop struct {
	BarV float64
}

func NewOpenLoop(barV float64) *OpenLoop {
	return &OpenLoop{BarV: barV}
}

func (o *OpenLoop) Control(float64) float64 {
	return o.BarV
}

func (o *OpenLoop) Name() string { return TypeOpenLoop }

func (o *OpenLoop) GetParams() map[string]float64 {
	return map[string]float64{"bar_v": o.BarV}
}
