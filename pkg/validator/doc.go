// Package validator checks tables of typed records against a declarative
// schema and reports every violation in one pass.
//
// A Schema is an ordered list of Column constraints (type, nullability,
// uniqueness and value checks) plus table-level Aggregate checks. Checks are
// plain values, a tagged variant evaluated by a small fixed interpreter, so a
// schema can be declared in code or decoded from a descriptor file without
// reflection. Once built, a Schema is immutable and safe for concurrent use.
//
// # Architecture
//
//   - Column / ColumnOption – Int, Float, String, Bool, Time with Nullable,
//     Unique, Describe and any Predicate as options
//   - Predicate – Min, Max, Between, NotBefore, NotAfter, OneOf, Length,
//     NotEqualColumn, CrossField, Satisfies
//   - Aggregate – GroupMeanAtLeast, ReferencedMinAtLeast, AggregateFunc
//   - Outcome – success flag, the validated table and Summary, or Violations
//
// # Usage
//
//	schema := validator.MustSchema("employees",
//	    validator.WithColumns(
//	        validator.Int("employee_id", validator.Unique(), validator.Min(1000)),
//	        validator.String("department", validator.OneOf("IT", "HR")),
//	        validator.Int("salary", validator.Min(250000)),
//	        validator.Int("manager_id", validator.Nullable(), validator.NotEqualColumn("employee_id")),
//	    ),
//	    validator.WithAggregates(
//	        validator.GroupMeanAtLeast("department", "salary", 300000),
//	    ),
//	    validator.WithSummary("department", "salary"),
//	)
//
//	out := schema.Validate(tbl)
//	if !out.Success {
//	    for _, v := range out.Violations {
//	        // v.Kind, v.Column, v.Row, v.Message
//	    }
//	}
//
// # Execution order
//
// Missing columns abort validation with one structural violation each.
// Otherwise all per-column checks run for all rows. Cross-field checks run
// only for columns whose own and referenced data passed, and aggregates run
// only when no row-level violation exists. Violations are ordered by stage,
// column declaration, row and check declaration, so the same input always
// yields the same list.
//
// # Error Handling
//
// Validate never returns expected failures as a Go error and never panics: a
// panic inside a check is recovered and reported as a single
// KindUnexpectedFault violation. Outcome.Err returns the Violations, which
// implement error, for callers that prefer error-typed flows.
package validator
