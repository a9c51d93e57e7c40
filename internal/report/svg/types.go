package svg

// WaterfallOpts customises the waterfall chart renderer.
type WaterfallOpts struct {
	Title         string
	Description   string
	TotalColor    string
	IncreaseColor string
	DecreaseColor string
	AxisColor     string
	GridColor     string
	Padding       float64
	TickCount     int
}

// Defaults for the report charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 280
	DefaultPadding = 24.0
	DefaultTicks   = 6
)
