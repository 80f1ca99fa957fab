package awscloud

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// Metric namespaces and names emitted by the CloudWatch agent.
const (
	namespaceEC2     = "AWS/EC2"
	namespaceCWAgent = "CWAgent"

	metricCPU          = "CPUUtilization"
	metricLinuxMemory  = "mem_used_percent"
	metricLinuxDisk    = "disk_used_percent"
	metricWindowsMem   = "Memory % Committed Bytes In Use"
	metricWindowsAvail = "Memory Available Mbytes"
	metricWindowsDisk  = "LogicalDisk % Free Space"
)

// metricPeriod is the aggregation period for current-value queries.
const metricPeriod = 300

// FetchInstanceMetrics collects the point-in-time CPU, memory, and disk
// utilization for one running instance.
//
// A failing CPU query aborts the instance: CPUUtilization exists for every
// running instance, so an error there means the fetch as a whole failed
// and the caller records it. Memory and disk lookups degrade instead:
// missing or unreadable agent metrics resolve to the NA sentinel or an
// empty disk list, matching how the report treats partially instrumented
// hosts.
func (c *Client) FetchInstanceMetrics(ctx context.Context, instanceID string) (domain.InstanceMetrics, error) {
	metrics := domain.InstanceMetrics{InstanceID: instanceID}

	cpu, err := c.currentValue(ctx, namespaceEC2, metricCPU, instanceDimensions(instanceID))
	if err != nil {
		return metrics, wrapError("failed to get CPU utilization", err)
	}
	metrics.CPU = cpu

	metrics.Memory = c.memoryUsage(ctx, instanceID)

	if c.isWindows(ctx, instanceID) {
		metrics.Disks = c.windowsDisks(ctx, instanceID)
	} else {
		metrics.Disks = c.linuxDisks(ctx, instanceID)
	}

	c.log.Debug("collected instance metrics",
		zap.String("instance_id", instanceID),
		zap.Int("disks", len(metrics.Disks)))

	return metrics, nil
}

// currentValue returns the most recent data point for a metric within the
// lookback window, or nil when the metric has no recent data.
func (c *Client) currentValue(ctx context.Context, namespace, metricName string, dims []cwtypes.Dimension) (*float64, error) {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(c.lookbackMinutes) * time.Minute)

	out, err := c.cw.GetMetricData(ctx, &cloudwatch.GetMetricDataInput{
		StartTime: aws.Time(start),
		EndTime:   aws.Time(end),
		MetricDataQueries: []cwtypes.MetricDataQuery{
			{
				Id: aws.String("m1"),
				MetricStat: &cwtypes.MetricStat{
					Metric: &cwtypes.Metric{
						Namespace:  aws.String(namespace),
						MetricName: aws.String(metricName),
						Dimensions: dims,
					},
					Period: aws.Int32(metricPeriod),
					Stat:   aws.String("Average"),
				},
				ReturnData: aws.Bool(true),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.MetricDataResults) == 0 {
		return nil, nil
	}

	values := out.MetricDataResults[0].Values
	if len(values) == 0 {
		return nil, nil
	}
	return domain.Float(values[len(values)-1]), nil
}

// listMetrics enumerates all metrics of the given name in the CWAgent
// namespace that carry this instance's InstanceId dimension.
func (c *Client) listMetrics(ctx context.Context, metricName, instanceID string) ([]cwtypes.Metric, error) {
	var metrics []cwtypes.Metric

	input := &cloudwatch.ListMetricsInput{
		Namespace:  aws.String(namespaceCWAgent),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.DimensionFilter{
			{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
		},
	}
	for {
		out, err := c.cw.ListMetrics(ctx, input)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, out.Metrics...)
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	return metrics, nil
}

// isWindows probes the platform by looking for any LogicalDisk free-space
// metric, which only the Windows agent emits. Probe failures fall back to
// the Linux metric set.
func (c *Client) isWindows(ctx context.Context, instanceID string) bool {
	metrics, err := c.listMetrics(ctx, metricWindowsDisk, instanceID)
	if err != nil {
		c.log.Warn("platform probe failed, assuming Linux",
			zap.String("instance_id", instanceID), zap.Error(err))
		return false
	}
	return len(metrics) > 0
}

// memoryUsage resolves memory utilization for either platform family.
// Order: Linux used-percent, Windows committed-bytes percent, then the
// Windows available-megabytes fallback which only yields a note.
func (c *Client) memoryUsage(ctx context.Context, instanceID string) domain.MemoryUsage {
	if usage, ok := c.linuxMemory(ctx, instanceID); ok {
		return usage
	}
	if usage, ok := c.windowsMemory(ctx, instanceID); ok {
		return usage
	}
	return c.windowsMemoryAvailable(ctx, instanceID)
}

func (c *Client) linuxMemory(ctx context.Context, instanceID string) (domain.MemoryUsage, bool) {
	metrics, err := c.listMetrics(ctx, metricLinuxMemory, instanceID)
	if err != nil {
		c.log.Warn("linux memory enumeration failed",
			zap.String("instance_id", instanceID), zap.Error(err))
		return domain.MemoryUsage{}, false
	}
	for _, metric := range metrics {
		value, err := c.currentValue(ctx, namespaceCWAgent, metricLinuxMemory, metric.Dimensions)
		if err != nil {
			c.log.Warn("linux memory query failed",
				zap.String("instance_id", instanceID), zap.Error(err))
			continue
		}
		if value != nil {
			return domain.MemoryUsage{UsedPercent: value}, true
		}
	}
	return domain.MemoryUsage{}, false
}

func (c *Client) windowsMemory(ctx context.Context, instanceID string) (domain.MemoryUsage, bool) {
	metrics, err := c.listMetrics(ctx, metricWindowsMem, instanceID)
	if err != nil {
		c.log.Warn("windows memory enumeration failed",
			zap.String("instance_id", instanceID), zap.Error(err))
		return domain.MemoryUsage{}, false
	}
	for _, metric := range metrics {
		if dimensionValue(metric.Dimensions, "objectname") != "Memory" {
			continue
		}
		value, err := c.currentValue(ctx, namespaceCWAgent, metricWindowsMem, metric.Dimensions)
		if err != nil {
			c.log.Warn("windows memory query failed",
				zap.String("instance_id", instanceID), zap.Error(err))
			continue
		}
		if value != nil {
			return domain.MemoryUsage{UsedPercent: value}, true
		}
	}
	return domain.MemoryUsage{}, false
}

// windowsMemoryAvailable is the last-resort memory lookup. Without the
// total memory size a percentage cannot be derived, so the reading is
// carried as a note next to the NA cell.
func (c *Client) windowsMemoryAvailable(ctx context.Context, instanceID string) domain.MemoryUsage {
	metrics, err := c.listMetrics(ctx, metricWindowsAvail, instanceID)
	if err != nil {
		return domain.MemoryUsage{}
	}
	for _, metric := range metrics {
		value, err := c.currentValue(ctx, namespaceCWAgent, metricWindowsAvail, metric.Dimensions)
		if err != nil || value == nil {
			continue
		}
		return domain.MemoryUsage{Note: formatAvailableNote(*value)}
	}
	return domain.MemoryUsage{}
}

// linuxDisks reports used-space for every allowed Linux mount path.
func (c *Client) linuxDisks(ctx context.Context, instanceID string) []domain.DiskUsage {
	metrics, err := c.listMetrics(ctx, metricLinuxDisk, instanceID)
	if err != nil {
		c.log.Warn("linux disk enumeration failed",
			zap.String("instance_id", instanceID), zap.Error(err))
		return nil
	}

	var disks []domain.DiskUsage
	for _, metric := range metrics {
		path := dimensionValue(metric.Dimensions, "path")
		if path == "" || !c.pathAllowed(path) {
			continue
		}
		value, err := c.currentValue(ctx, namespaceCWAgent, metricLinuxDisk, metric.Dimensions)
		if err != nil {
			c.log.Warn("linux disk query failed",
				zap.String("instance_id", instanceID),
				zap.String("path", path), zap.Error(err))
			value = nil
		}
		disks = append(disks, domain.DiskUsage{Path: path, UsedPercent: value})
	}
	return disks
}

// windowsDisks reports used-space for every logical drive (C:, D:, ...).
// The drive letter lives in the "instance" dimension; "_Total" rollups
// and non-LogicalDisk objects are skipped, and duplicate drives collapse
// to the first metric seen. The agent reports free space, so used is the
// complement.
func (c *Client) windowsDisks(ctx context.Context, instanceID string) []domain.DiskUsage {
	metrics, err := c.listMetrics(ctx, metricWindowsDisk, instanceID)
	if err != nil {
		c.log.Warn("windows disk enumeration failed",
			zap.String("instance_id", instanceID), zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var disks []domain.DiskUsage
	for _, metric := range metrics {
		drive := dimensionValue(metric.Dimensions, "instance")
		if drive == "" || drive == "_Total" || !strings.Contains(drive, ":") {
			continue
		}
		if dimensionValue(metric.Dimensions, "objectname") != "LogicalDisk" {
			continue
		}
		if seen[drive] {
			continue
		}
		seen[drive] = true

		free, err := c.currentValue(ctx, namespaceCWAgent, metricWindowsDisk, metric.Dimensions)
		if err != nil {
			c.log.Warn("windows disk query failed",
				zap.String("instance_id", instanceID),
				zap.String("drive", drive), zap.Error(err))
			free = nil
		}
		if free == nil {
			disks = append(disks, domain.DiskUsage{Path: drive})
			continue
		}
		disks = append(disks, domain.DiskUsage{Path: drive, UsedPercent: domain.Float(100 - *free)})
	}

	sort.Slice(disks, func(i, j int) bool { return disks[i].Path < disks[j].Path })
	return disks
}

// pathAllowed reports whether a Linux mount path is included in the report.
func (c *Client) pathAllowed(path string) bool {
	for _, allowed := range c.diskPaths {
		if allowed == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

// instanceDimensions builds the single InstanceId dimension set.
func instanceDimensions(instanceID string) []cwtypes.Dimension {
	return []cwtypes.Dimension{
		{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
	}
}

// dimensionValue returns the value of the named dimension, or "".
func dimensionValue(dims []cwtypes.Dimension, name string) string {
	for _, d := range dims {
		if aws.ToString(d.Name) == name {
			return aws.ToString(d.Value)
		}
	}
	return ""
}
