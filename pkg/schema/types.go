package schema

// Mover types accepted in a document.
const (
	MoverForwardShoot          = "forward_shoot"
	MoverBackwardShoot         = "backward_shoot"
	MoverOneWayShooting        = "one_way_shooting"
	MoverReversal              = "reversal"
	MoverHop                   = "hop"
	MoverExchange              = "exchange"
	MoverReplicaIDChange       = "replica_id_change"
	MoverMixed                 = "mixed"
	MoverSequential            = "sequential"
	MoverPartialSequential     = "partial_sequential"
	MoverConditionalSequential = "conditional_sequential"
	MoverMinus                 = "minus"
)

// Ensemble types accepted in a document.
const (
	EnsembleInterface = "interface"
	EnsembleAllIn     = "all_in"
	EnsembleAllOut    = "all_out"
	EnsembleLength    = "length"
)

// Selector types accepted in a document.
const (
	SelectorUniform  = "uniform"
	SelectorGaussian = "gaussian"
)

// Document is a complete run description.
type Document struct {
	Seed      uint64           `mapstructure:"seed" json:"seed,omitempty"`
	Steps     int              `mapstructure:"steps" json:"steps,omitempty"`
	Engine    EngineSpec       `mapstructure:"engine" json:"engine"`
	Volumes   map[string]Range `mapstructure:"volumes" json:"volumes,omitempty"`
	Ensembles []EnsembleSpec   `mapstructure:"ensembles" json:"ensembles"`
	Selectors []SelectorSpec   `mapstructure:"selectors" json:"selectors,omitempty"`
	Mover     MoverSpec        `mapstructure:"mover" json:"mover"`
	Initial   []InitialSpec    `mapstructure:"initial" json:"initial"`
}

// EngineSpec configures the toy dynamics engine. Zero fields take defaults.
type EngineSpec struct {
	DT          float64 `mapstructure:"dt" json:"dt,omitempty"`
	Gamma       float64 `mapstructure:"gamma" json:"gamma,omitempty"`
	Temperature float64 `mapstructure:"temperature" json:"temperature,omitempty"`
	MaxLength   int     `mapstructure:"max_length" json:"max_length,omitempty"`
}

// Range is a volume min <= x < max on the position.
type Range struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

// EnsembleSpec names an ensemble built from volumes.
type EnsembleSpec struct {
	Name      string `mapstructure:"name" json:"name"`
	Type      string `mapstructure:"type" json:"type"`
	StateA    string `mapstructure:"state_a" json:"state_a,omitempty"`
	StateB    string `mapstructure:"state_b" json:"state_b,omitempty"`
	Interface string `mapstructure:"interface" json:"interface,omitempty"`
	Volume    string `mapstructure:"volume" json:"volume,omitempty"`
	Length    int    `mapstructure:"length" json:"length,omitempty"`
}

// SelectorSpec names a shooting-point selector.
type SelectorSpec struct {
	Name   string  `mapstructure:"name" json:"name"`
	Type   string  `mapstructure:"type" json:"type"`
	Center float64 `mapstructure:"center" json:"center,omitempty"`
	Width  float64 `mapstructure:"width" json:"width,omitempty"`
}

// MoverSpec is a node of the mover tree.
type MoverSpec struct {
	Type      string      `mapstructure:"type" json:"type"`
	Name      string      `mapstructure:"name" json:"name,omitempty"`
	Selector  string      `mapstructure:"selector" json:"selector,omitempty"`
	Ensembles []string    `mapstructure:"ensembles" json:"ensembles,omitempty"`
	Replicas  []int       `mapstructure:"replicas" json:"replicas,omitempty"`
	Pairs     [][]string  `mapstructure:"pairs" json:"pairs,omitempty"`
	Weights   []float64   `mapstructure:"weights" json:"weights,omitempty"`
	MaxLength int         `mapstructure:"max_length" json:"max_length,omitempty"`
	Movers    []MoverSpec `mapstructure:"movers" json:"movers,omitempty"`
}

// IsComposite reports whether the node holds sub-movers.
func (m MoverSpec) IsComposite() bool {
	switch m.Type {
	case MoverMixed, MoverSequential, MoverPartialSequential, MoverConditionalSequential:
		return true
	}
	return false
}

// InitialSpec is an initial sample given as positions.
type InitialSpec struct {
	Replica  int       `mapstructure:"replica" json:"replica"`
	Ensemble string    `mapstructure:"ensemble" json:"ensemble"`
	Path     []float64 `mapstructure:"path" json:"path"`
}
