package predictor

import "strconv"

// Health is the liveness payload served by GET /health.
type Health struct {
	Status string `json:"status"`
}

// Parameter documents one model input or output.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description"`
	Units       string `json:"units"`
}

// ModelInfo is served by GET /api/info and shown beside the form.
type ModelInfo struct {
	Name             string      `json:"name,omitempty"`
	Description      string      `json:"description"`
	Version          string      `json:"version,omitempty"`
	InputParameters  []Parameter `json:"input_parameters"`
	OutputParameters []Parameter `json:"output_parameters"`
}

// Result is the prediction returned by POST /api/predict.  Age is computed
// upstream, conventionally Rings + 1.5.
type Result struct {
	Rings float64 `json:"Rings"`
	Age   float64 `json:"Age"`
}

// FormatRings renders Rings with one decimal place.
func (r Result) FormatRings() string { return oneDecimal(r.Rings) }

// FormatAge renders Age with one decimal place.
func (r Result) FormatAge() string { return oneDecimal(r.Age) }

func oneDecimal(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
