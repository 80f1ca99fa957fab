package domain

// Instance represents a single EC2 instance as reported by the inventory.
// It is collected once per run and never mutated afterwards.
type Instance struct {
	// ID is the EC2 instance ID, e.g. "i-0abc123".
	ID string `json:"id"`

	// Name is the value of the Name tag, falling back to the instance ID
	// when the tag is absent.
	Name string `json:"name"`

	// Platform is the raw platform details string from the inventory,
	// e.g. "Linux/UNIX", "Windows", "SUSE Linux".
	Platform string `json:"platform"`

	// InstanceType is the size class, e.g. "m5.xlarge".
	InstanceType string `json:"instance_type"`

	// State is the lifecycle state, e.g. "running", "stopped".
	State string `json:"state"`
}

// Running reports whether the instance is in the running lifecycle state.
func (i Instance) Running() bool {
	return i.State == StateRunning
}

// StateRunning is the lifecycle state for which metrics are collected.
const StateRunning = "running"

// InstanceSpec holds the static size-class specification of an instance type.
// The zero value means the lookup failed; render as "Unknown".
type InstanceSpec struct {
	VCPUs    int     `json:"vcpus"`
	MemoryGB float64 `json:"memory_gb"`
	Known    bool    `json:"known"`
}
