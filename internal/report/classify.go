package report

import (
	"fmt"
	"sort"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// Threshold tiers for utilization readings. A reading above the critical
// cutoff demands action; above the warning cutoff it is worth watching.
const (
	warningThreshold  = 50.0
	criticalThreshold = 60.0
)

// Tier is the alert classification bucket for a utilization reading.
type Tier string

const (
	// TierWarning marks readings in (50, 60].
	TierWarning Tier = "warning"
	// TierCritical marks readings above 60.
	TierCritical Tier = "critical"
)

// Classify buckets a utilization percentage. ok is false for readings at
// or below the warning cutoff, which produce no alert.
func Classify(value float64) (tier Tier, ok bool) {
	switch {
	case value > criticalThreshold:
		return TierCritical, true
	case value > warningThreshold:
		return TierWarning, true
	default:
		return "", false
	}
}

// Alert is one threshold breach: which instance, which metric, how high.
type Alert struct {
	InstanceName string
	Metric       string
	Utilization  string
}

// CollectAlerts walks the collected metrics and buckets every CPU, memory,
// and per-disk reading into warning and critical alerts. Instances whose
// fetch failed contribute nothing. Output order is stable: instances by
// ID, then CPU, memory, disks in reported order.
func CollectAlerts(instances map[string]domain.Instance, metrics map[string]domain.InstanceMetrics) (warnings, criticals []Alert) {
	ids := make([]string, 0, len(metrics))
	for id := range metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	add := func(name, metric string, value float64) {
		tier, ok := Classify(value)
		if !ok {
			return
		}
		alert := Alert{
			InstanceName: name,
			Metric:       metric,
			Utilization:  fmt.Sprintf("%.1f%%", value),
		}
		if tier == TierCritical {
			criticals = append(criticals, alert)
		} else {
			warnings = append(warnings, alert)
		}
	}

	for _, id := range ids {
		data := metrics[id]
		if data.Failed() {
			continue
		}

		name := id
		if inst, ok := instances[id]; ok {
			name = inst.Name
		}

		if data.CPU != nil {
			add(name, "CPU", *data.CPU)
		}
		if data.Memory.UsedPercent != nil {
			add(name, "Memory", *data.Memory.UsedPercent)
		}
		for _, disk := range data.Disks {
			if disk.UsedPercent != nil {
				add(name, fmt.Sprintf("Disk (%s)", disk.Path), *disk.UsedPercent)
			}
		}
	}

	return warnings, criticals
}
