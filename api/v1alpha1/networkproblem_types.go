package v1alpha1

import (
	"math"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/ulagbulag-village/noah-cloud/pkg/frame"
)

// MaxCapacity is the ceiling for any capacity value handed to the solver.
// Leaving 32 bits of headroom keeps solver-internal products and sums
// (capacity times cost, summed over many edges) from silently overflowing.
const MaxCapacity uint64 = math.MaxUint64 >> 32

// Standard column names assumed by the solver after analysis.
const (
	DefaultCapacityColumn = "capacity"
	DefaultFlowColumn     = "flow"
	DefaultFunctionColumn = "function"
	DefaultNameColumn     = "name"
	DefaultSinkColumn     = "sink"
	DefaultSrcColumn      = "src"
	DefaultSupplyColumn   = "supply"
	DefaultUnitCostColumn = "unit_cost"
)

// GraphMetadata maps optimizer-semantic column roles onto the actual column
// names of a graph's tables. It is the single place the domain-to-column
// mapping is declared; the analyzer, solver and runner only ever address
// columns through it. Empty fields fall back to the standard names.
type GraphMetadata struct {
	// Capacity is the column holding per-edge / per-node capacity.
	// +kubebuilder:validation:Optional
	Capacity string `json:"capacity,omitempty"`

	// Flow is the column the solver writes flow assignments into.
	// +kubebuilder:validation:Optional
	Flow string `json:"flow,omitempty"`

	// Function is the column tagging which function produced a row.
	// +kubebuilder:validation:Optional
	Function string `json:"function,omitempty"`

	// Name is the column holding node identity.
	// +kubebuilder:validation:Optional
	Name string `json:"name,omitempty"`

	// Sink is the column holding an edge's sink node key.
	// +kubebuilder:validation:Optional
	Sink string `json:"sink,omitempty"`

	// Src is the column holding an edge's source node key.
	// +kubebuilder:validation:Optional
	Src string `json:"src,omitempty"`

	// Supply is the column holding per-node declared supply.
	// +kubebuilder:validation:Optional
	Supply string `json:"supply,omitempty"`

	// UnitCost is the column holding per-unit transport or retention cost.
	// +kubebuilder:validation:Optional
	UnitCost string `json:"unitCost,omitempty"`
}

func (m GraphMetadata) CapacityColumn() string { return orDefault(m.Capacity, DefaultCapacityColumn) }
func (m GraphMetadata) FlowColumn() string     { return orDefault(m.Flow, DefaultFlowColumn) }
func (m GraphMetadata) FunctionColumn() string { return orDefault(m.Function, DefaultFunctionColumn) }
func (m GraphMetadata) NameColumn() string     { return orDefault(m.Name, DefaultNameColumn) }
func (m GraphMetadata) SinkColumn() string     { return orDefault(m.Sink, DefaultSinkColumn) }
func (m GraphMetadata) SrcColumn() string      { return orDefault(m.Src, DefaultSrcColumn) }
func (m GraphMetadata) SupplyColumn() string   { return orDefault(m.Supply, DefaultSupplyColumn) }
func (m GraphMetadata) UnitCostColumn() string { return orDefault(m.UnitCost, DefaultUnitCostColumn) }

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// StandardMetadata returns the metadata schema with every role bound to its
// standard column name.
func StandardMetadata() GraphMetadata {
	return GraphMetadata{
		Capacity: DefaultCapacityColumn,
		Flow:     DefaultFlowColumn,
		Function: DefaultFunctionColumn,
		Name:     DefaultNameColumn,
		Sink:     DefaultSinkColumn,
		Src:      DefaultSrcColumn,
		Supply:   DefaultSupplyColumn,
		UnitCost: DefaultUnitCostColumn,
	}
}

// NodeMapping returns the column renames taking a node table from this schema
// onto the target schema.
func (m GraphMetadata) NodeMapping(target GraphMetadata) frame.ColumnMapping {
	return trimIdentity(frame.ColumnMapping{
		m.NameColumn():     target.NameColumn(),
		m.CapacityColumn(): target.CapacityColumn(),
		m.SupplyColumn():   target.SupplyColumn(),
		m.UnitCostColumn(): target.UnitCostColumn(),
	})
}

// EdgeMapping returns the column renames taking an edge table from this
// schema onto the target schema.
func (m GraphMetadata) EdgeMapping(target GraphMetadata) frame.ColumnMapping {
	return trimIdentity(frame.ColumnMapping{
		m.SrcColumn():      target.SrcColumn(),
		m.SinkColumn():     target.SinkColumn(),
		m.CapacityColumn(): target.CapacityColumn(),
		m.UnitCostColumn(): target.UnitCostColumn(),
		m.FlowColumn():     target.FlowColumn(),
	})
}

func trimIdentity(mapping frame.ColumnMapping) frame.ColumnMapping {
	out := make(frame.ColumnMapping, len(mapping))
	for from, to := range mapping {
		if from != to {
			out[from] = to
		}
	}
	return out
}

// ProblemSpec declares a flow optimization problem over a stored graph.
type ProblemSpec struct {
	// Metadata maps column roles onto the graph's actual column names.
	// +kubebuilder:validation:Optional
	Metadata GraphMetadata `json:"metadata,omitempty"`

	// Verbose toggles diagnostic detail in pipeline logs. It never changes
	// solver results.
	// +kubebuilder:default=false
	// +kubebuilder:validation:Optional
	Verbose bool `json:"verbose,omitempty"`
}

// NetworkProblemPhase tracks the strictly linear pipeline state of a problem.
type NetworkProblemPhase string

const (
	NetworkProblemPhaseRaw      NetworkProblemPhase = "Raw"
	NetworkProblemPhaseAnalyzed NetworkProblemPhase = "Analyzed"
	NetworkProblemPhaseSolved   NetworkProblemPhase = "Solved"
	NetworkProblemPhaseExecuted NetworkProblemPhase = "Executed"
)

// NetworkProblemStatus represents the observed state of a NetworkProblem.
type NetworkProblemStatus struct {
	// Phase is the last pipeline stage the problem completed.
	// +kubebuilder:validation:Optional
	Phase NetworkProblemPhase `json:"phase,omitempty"`

	// Conditions represent the latest available observations of the problem's state.
	// +kubebuilder:validation:Optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=np
// +kubebuilder:printcolumn:name="created-at",type="date",JSONPath=".metadata.creationTimestamp",description="created time"
// +kubebuilder:printcolumn:name="version",type="integer",JSONPath=".metadata.generation",description="problem version"

// NetworkProblem is the Schema for the networkproblems API.
type NetworkProblem struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProblemSpec          `json:"spec,omitempty"`
	Status NetworkProblemStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// NetworkProblemList contains a list of NetworkProblem.
type NetworkProblemList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []NetworkProblem `json:"items"`
}

func init() {
	SchemeBuilder.Register(&NetworkProblem{}, &NetworkProblemList{})
}
