// Package schemafile loads table schemas from YAML descriptors.
//
// A descriptor lists columns with their type, nullability, uniqueness and
// checks, followed by table-level aggregates and an optional summary
// designation:
//
//	name: employees
//	columns:
//	  - name: employee_id
//	    type: int
//	    unique: true
//	    checks:
//	      - {kind: min, value: 1000}
//	  - name: manager_id
//	    type: int
//	    nullable: true
//	    checks:
//	      - {kind: not_equal_column, column: employee_id}
//	aggregates:
//	  - {kind: group_mean_at_least, group: department, value: salary, threshold: 300000}
//	summary: {category: department, means: [salary]}
//
// Supported check kinds are min, max, between, one_of, length, not_before,
// not_after and not_equal_column. Aggregate kinds are group_mean_at_least and
// referenced_min_at_least. Every check accepts an optional message template.
//
// Parse and Load return a ready *validator.Schema; Describe converts a schema
// back into a Descriptor for display.
package schemafile
