package models

// NetworkNode is a vertex of the dashboard network graph.
type NetworkNode struct {
	ID     string  `json:"id" yaml:"id"`
	Type   string  `json:"type" yaml:"type"`
	Name   string  `json:"name" yaml:"name"`
	Status string  `json:"status" yaml:"status"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`

	PlantType   string `json:"plantType,omitempty" yaml:"plantType,omitempty"`
	GrowthStage *int   `json:"growthStage,omitempty" yaml:"growthStage,omitempty"`
	Health      *int   `json:"health,omitempty" yaml:"health,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`

	// Placement positions the node in layouts computed at request time.
	Placement *Placement `json:"-" yaml:"placement,omitempty"`
}

// Placement describes where a layout puts a node: its kind (hub,
// subsystem, sensor), its index among siblings and the sibling count.
type Placement struct {
	Kind    string `yaml:"kind"`
	Index   int    `yaml:"index"`
	Total   int    `yaml:"total"`
	Variant string `yaml:"variant,omitempty"`
}

// NetworkConnection is a directed edge between two node IDs.
type NetworkConnection struct {
	Source    string `json:"source" yaml:"source"`
	Target    string `json:"target" yaml:"target"`
	Status    string `json:"status" yaml:"status"`
	FlowRate  *int   `json:"flowRate,omitempty" yaml:"flowRate,omitempty"`
	Intensity *int   `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	DataRate  *int   `json:"dataRate,omitempty" yaml:"dataRate,omitempty"`
	IsCentral bool   `json:"isCentral,omitempty" yaml:"isCentral,omitempty"`
}

type NetworkData struct {
	Nodes       []NetworkNode       `json:"nodes" yaml:"nodes"`
	Connections []NetworkConnection `json:"connections" yaml:"connections"`
}
