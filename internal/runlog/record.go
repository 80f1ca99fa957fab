package runlog

import "time"

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunRecord is one persisted report run.
type RunRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// Account is the AWS account number the report covered.
	Account string

	// Region is the AWS region queried.
	Region string

	// TotalInstances is the fleet size at inventory time.
	TotalInstances int

	// RunningInstances is how many instances had metrics collected.
	RunningInstances int

	// Warnings and Criticals count the threshold breaches found.
	Warnings  int
	Criticals int

	// ReportKey is the S3 object key of the uploaded report, empty when
	// the upload was skipped or the run failed before publishing.
	ReportKey string

	// Status is "success" or "error".
	Status string

	// ErrorMessage explains the failure when Status is "error".
	ErrorMessage string

	// CreatedAt is when the run finished and was recorded.
	CreatedAt time.Time
}
