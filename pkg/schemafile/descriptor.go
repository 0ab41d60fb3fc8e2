package schemafile

// Descriptor is the serialized form of a schema.
type Descriptor struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Columns     []ColumnSpec    `yaml:"columns" json:"columns"`
	Aggregates  []AggregateSpec `yaml:"aggregates,omitempty" json:"aggregates,omitempty"`
	Summary     *SummarySpec    `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// ColumnSpec describes one column.
type ColumnSpec struct {
	Name          string      `yaml:"name" json:"name"`
	Type          string      `yaml:"type" json:"type"`
	Nullable      bool        `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Unique        bool        `yaml:"unique,omitempty" json:"unique,omitempty"`
	UniqueMessage string      `yaml:"unique_message,omitempty" json:"unique_message,omitempty"`
	Description   string      `yaml:"description,omitempty" json:"description,omitempty"`
	Checks        []CheckSpec `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// CheckSpec is a tagged check: Kind selects which of the other fields apply.
//
//	min, max          value
//	between, length   min, max
//	one_of            values
//	not_before/after  value (date or RFC 3339 timestamp)
//	not_equal_column  column
type CheckSpec struct {
	Kind    string `yaml:"kind" json:"kind"`
	Value   any    `yaml:"value,omitempty" json:"value,omitempty"`
	Min     any    `yaml:"min,omitempty" json:"min,omitempty"`
	Max     any    `yaml:"max,omitempty" json:"max,omitempty"`
	Values  []any  `yaml:"values,omitempty" json:"values,omitempty"`
	Column  string `yaml:"column,omitempty" json:"column,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// AggregateSpec is a tagged table-level check.
//
//	group_mean_at_least      group, value, threshold
//	referenced_min_at_least  key, ref, value, threshold
type AggregateSpec struct {
	Kind      string   `yaml:"kind" json:"kind"`
	Group     string   `yaml:"group,omitempty" json:"group,omitempty"`
	Key       string   `yaml:"key,omitempty" json:"key,omitempty"`
	Ref       string   `yaml:"ref,omitempty" json:"ref,omitempty"`
	Value     string   `yaml:"value,omitempty" json:"value,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Message   string   `yaml:"message,omitempty" json:"message,omitempty"`
}

// SummarySpec designates the summary columns.
type SummarySpec struct {
	Category string   `yaml:"category,omitempty" json:"category,omitempty"`
	Means    []string `yaml:"means,omitempty" json:"means,omitempty"`
}
