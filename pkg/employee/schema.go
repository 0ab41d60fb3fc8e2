// Package employee declares the employee record schema: identifiers,
// demographics, department, salary, hire date, reporting line and
// performance score, with department- and manager-level aggregate rules.
package employee

import (
	"time"

	"github.com/dmitrymomot/tablecheck/pkg/table"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Column names of an employee table.
const (
	ID               = "employee_id"
	Name             = "name"
	Age              = "age"
	Department       = "department"
	Salary           = "salary"
	JoinDate         = "join_date"
	ManagerID        = "manager_id"
	PerformanceScore = "performance_score"
)

// Rule thresholds.
const (
	MinID             = 1000
	MinNameLength     = 2
	MaxNameLength     = 20
	MinAge            = 18
	MaxAge            = 65
	MinSalary         = 250000
	MinDepartmentMean = 300000
	MinScore          = 1.0
	MaxScore          = 5.0
	MinManagerScore   = 3.5
)

// SchemaName is the name of the employee schema.
const SchemaName = "employees"

const (
	schemaDescription     = "Basic employee information and performance data"
	departmentMeanMessage = "mean salary per department must be at least %{threshold}; failing: %{groups}"
	managerScoreMessage   = "managers must have a performance score of at least %{threshold}; lowest is %{min} (employee_id %{keys})"
)

// Departments lists the allowed department names.
var Departments = []string{"IT", "HR", "Finance", "Marketing", "Sales", "R&D"}

// EarliestJoinDate is the first accepted hire date.
var EarliestJoinDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var schema = validator.MustSchema(SchemaName,
	validator.WithDescription(schemaDescription),
	validator.WithColumns(
		validator.Int(ID,
			validator.Describe("employee identifier, unique and at least 1000"),
			validator.Min(MinID),
			validator.Unique(),
		),
		validator.String(Name,
			validator.Describe("employee name, 2 to 20 characters"),
			validator.Length(MinNameLength, MaxNameLength),
		),
		validator.Int(Age,
			validator.Describe("age in years, 18 to 65"),
			validator.Between(MinAge, MaxAge),
		),
		validator.String(Department,
			validator.Describe("department name"),
			validator.OneOf(Departments...),
		),
		validator.Int(Salary,
			validator.Describe("monthly salary in yen"),
			validator.Min(MinSalary),
		),
		validator.Time(JoinDate,
			validator.Describe("hire date"),
			validator.NotBefore(EarliestJoinDate).
				WithMessage("%{column} must be on or after 2000-01-01, got %{value}"),
		),
		validator.Int(ManagerID,
			validator.Describe("employee_id of the manager"),
			validator.Nullable(),
			validator.NotEqualColumn(ID).
				WithMessage("%{column} must differ from the employee's own %{other} (%{value})"),
		),
		validator.Float(PerformanceScore,
			validator.Describe("performance score, 1.0 to 5.0"),
			validator.Between(MinScore, MaxScore),
		),
	),
	validator.WithAggregates(
		validator.GroupMeanAtLeast(Department, Salary, MinDepartmentMean).
			WithMessage(departmentMeanMessage),
		validator.ReferencedMinAtLeast(ID, ManagerID, PerformanceScore, MinManagerScore).
			WithMessage(managerScoreMessage),
	),
	validator.WithSummary(Department, Age, Salary, PerformanceScore),
)

// Schema returns the employee schema. The schema is shared and immutable.
func Schema() *validator.Schema {
	return schema
}

// Types returns the column types of the employee schema, for loaders.
func Types() map[string]validator.Type {
	return schema.Types()
}

// Validate checks an employee table.
func Validate(t *table.Table) validator.Outcome {
	return schema.Validate(t)
}
