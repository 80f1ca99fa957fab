package domain

// DiskUsage is the current used-space reading for one disk. Path is a
// mount point on Linux ("/", "/hana") or a drive letter on Windows ("C:").
// A nil UsedPercent means the metric existed but had no recent data.
type DiskUsage struct {
	Path        string   `json:"path"`
	UsedPercent *float64 `json:"used_percent"`
}

// MemoryUsage is the current memory reading. Note carries supplemental
// text when only an absolute measure was available (Windows fallback).
type MemoryUsage struct {
	UsedPercent *float64 `json:"used_percent"`
	Note        string   `json:"note,omitempty"`
}

// InstanceMetrics holds the point-in-time utilization collected for one
// running instance. Nil values are rendered as "NA". A non-empty Err
// means the fetch failed as a whole; the report shows the error text in
// place of the metric table.
type InstanceMetrics struct {
	InstanceID string      `json:"instance_id"`
	CPU        *float64    `json:"cpu"`
	Memory     MemoryUsage `json:"memory"`
	Disks      []DiskUsage `json:"disks"`
	Err        string      `json:"error,omitempty"`
}

// Failed reports whether the collection for this instance failed outright.
func (m InstanceMetrics) Failed() bool {
	return m.Err != ""
}

// Float returns a pointer to v. Convenience for building metric values.
func Float(v float64) *float64 {
	return &v
}
