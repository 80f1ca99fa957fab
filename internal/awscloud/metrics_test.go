package awscloud

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/google/go-cmp/cmp"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// valueOutput builds a GetMetricData response carrying the given data
// points, newest last.
func valueOutput(values ...float64) *cloudwatch.GetMetricDataOutput {
	return &cloudwatch.GetMetricDataOutput{
		MetricDataResults: []cwtypes.MetricDataResult{{Values: values}},
	}
}

// listOutput builds a ListMetrics response.
func listOutput(metrics ...cwtypes.Metric) *cloudwatch.ListMetricsOutput {
	return &cloudwatch.ListMetricsOutput{Metrics: metrics}
}

// agentMetric builds a CWAgent metric with the given dimensions, passed
// as name/value pairs.
func agentMetric(name string, dims ...string) cwtypes.Metric {
	m := cwtypes.Metric{MetricName: aws.String(name)}
	for i := 0; i+1 < len(dims); i += 2 {
		m.Dimensions = append(m.Dimensions, cwtypes.Dimension{
			Name: aws.String(dims[i]), Value: aws.String(dims[i+1]),
		})
	}
	return m
}

// queryName extracts the metric name of the single query in a
// GetMetricData request.
func queryName(params *cloudwatch.GetMetricDataInput) string {
	return aws.ToString(params.MetricDataQueries[0].MetricStat.Metric.MetricName)
}

func queryDimension(params *cloudwatch.GetMetricDataInput, name string) string {
	return dimensionValue(params.MetricDataQueries[0].MetricStat.Metric.Dimensions, name)
}

func TestFetchInstanceMetrics_Linux(t *testing.T) {
	c := newTestClient(t)
	c.cw = &fakeCloudWatch{
		listMetrics: func(params *cloudwatch.ListMetricsInput) (*cloudwatch.ListMetricsOutput, error) {
			switch aws.ToString(params.MetricName) {
			case metricWindowsDisk:
				// No LogicalDisk metrics: the platform probe resolves
				// to Linux.
				return listOutput(), nil
			case metricLinuxMemory:
				return listOutput(
					agentMetric(metricLinuxMemory, "InstanceId", "i-lin"),
				), nil
			case metricLinuxDisk:
				return listOutput(
					agentMetric(metricLinuxDisk, "InstanceId", "i-lin", "path", "/"),
					agentMetric(metricLinuxDisk, "InstanceId", "i-lin", "path", "/usr/sap"),
					agentMetric(metricLinuxDisk, "InstanceId", "i-lin", "path", "/tmp"),
					agentMetric(metricLinuxDisk, "InstanceId", "i-lin", "path", "/hana/data"),
				), nil
			}
			return listOutput(), nil
		},
		getMetricData: func(params *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
			switch queryName(params) {
			case metricCPU:
				return valueOutput(40.0, 42.5), nil
			case metricLinuxMemory:
				return valueOutput(61.2), nil
			case metricLinuxDisk:
				switch queryDimension(params, "path") {
				case "/":
					return valueOutput(55.0), nil
				case "/usr/sap":
					return valueOutput(30.0), nil
				case "/hana/data":
					return valueOutput(72.0), nil
				}
			}
			return valueOutput(), nil
		},
	}

	metrics, err := c.FetchInstanceMetrics(context.Background(), "i-lin")
	if err != nil {
		t.Fatalf("FetchInstanceMetrics failed: %v", err)
	}

	// The newest data point wins.
	if metrics.CPU == nil || *metrics.CPU != 42.5 {
		t.Errorf("expected CPU 42.5, got %v", metrics.CPU)
	}
	if metrics.Memory.UsedPercent == nil || *metrics.Memory.UsedPercent != 61.2 {
		t.Errorf("expected memory 61.2, got %v", metrics.Memory.UsedPercent)
	}

	// "/tmp" is outside the allowed mount paths.
	want := []domain.DiskUsage{
		{Path: "/", UsedPercent: domain.Float(55.0)},
		{Path: "/usr/sap", UsedPercent: domain.Float(30.0)},
		{Path: "/hana/data", UsedPercent: domain.Float(72.0)},
	}
	if diff := cmp.Diff(want, metrics.Disks); diff != "" {
		t.Errorf("disks mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchInstanceMetrics_CPUFailure(t *testing.T) {
	c := newTestClient(t)
	c.cw = &fakeCloudWatch{
		getMetricData: func(*cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	_, err := c.FetchInstanceMetrics(context.Background(), "i-bad")
	if err == nil {
		t.Fatal("expected error when the CPU query fails")
	}
}

func TestFetchInstanceMetrics_NoRecentData(t *testing.T) {
	c := newTestClient(t)
	c.cw = &fakeCloudWatch{
		listMetrics: func(*cloudwatch.ListMetricsInput) (*cloudwatch.ListMetricsOutput, error) {
			return listOutput(), nil
		},
		getMetricData: func(*cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
			return valueOutput(), nil
		},
	}

	metrics, err := c.FetchInstanceMetrics(context.Background(), "i-quiet")
	if err != nil {
		t.Fatalf("FetchInstanceMetrics failed: %v", err)
	}
	if metrics.CPU != nil {
		t.Errorf("expected nil CPU with no data, got %v", *metrics.CPU)
	}
	if metrics.Memory.UsedPercent != nil || metrics.Memory.Note != "" {
		t.Errorf("expected empty memory reading, got %+v", metrics.Memory)
	}
	if len(metrics.Disks) != 0 {
		t.Errorf("expected no disks, got %d", len(metrics.Disks))
	}
}

func TestFetchInstanceMetrics_Windows(t *testing.T) {
	c := newTestClient(t)
	c.cw = &fakeCloudWatch{
		listMetrics: func(params *cloudwatch.ListMetricsInput) (*cloudwatch.ListMetricsOutput, error) {
			switch aws.ToString(params.MetricName) {
			case metricWindowsDisk:
				return listOutput(
					agentMetric(metricWindowsDisk, "InstanceId", "i-win", "instance", "D:", "objectname", "LogicalDisk"),
					agentMetric(metricWindowsDisk, "InstanceId", "i-win", "instance", "_Total", "objectname", "LogicalDisk"),
					agentMetric(metricWindowsDisk, "InstanceId", "i-win", "instance", "C:", "objectname", "LogicalDisk"),
					agentMetric(metricWindowsDisk, "InstanceId", "i-win", "instance", "C:", "objectname", "LogicalDisk"),
					agentMetric(metricWindowsDisk, "InstanceId", "i-win", "instance", "HarddiskVolume1", "objectname", "LogicalDisk"),
				), nil
			case metricLinuxMemory:
				return listOutput(), nil
			case metricWindowsMem:
				return listOutput(
					agentMetric(metricWindowsMem, "InstanceId", "i-win", "objectname", "Memory"),
				), nil
			}
			return listOutput(), nil
		},
		getMetricData: func(params *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
			switch queryName(params) {
			case metricCPU:
				return valueOutput(12.0), nil
			case metricWindowsMem:
				return valueOutput(45.0), nil
			case metricWindowsDisk:
				switch queryDimension(params, "instance") {
				case "C:":
					return valueOutput(20.0), nil
				case "D:":
					return valueOutput(), nil
				}
			}
			return valueOutput(), nil
		},
	}

	metrics, err := c.FetchInstanceMetrics(context.Background(), "i-win")
	if err != nil {
		t.Fatalf("FetchInstanceMetrics failed: %v", err)
	}

	if metrics.Memory.UsedPercent == nil || *metrics.Memory.UsedPercent != 45.0 {
		t.Errorf("expected memory 45.0 from committed bytes, got %v", metrics.Memory.UsedPercent)
	}

	// _Total, duplicates, and non-drive instances are dropped; drives
	// sort by letter, and the agent's free space is flipped to used.
	want := []domain.DiskUsage{
		{Path: "C:", UsedPercent: domain.Float(80.0)},
		{Path: "D:", UsedPercent: nil},
	}
	if diff := cmp.Diff(want, metrics.Disks); diff != "" {
		t.Errorf("disks mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchInstanceMetrics_WindowsAvailableFallback(t *testing.T) {
	c := newTestClient(t)
	c.cw = &fakeCloudWatch{
		listMetrics: func(params *cloudwatch.ListMetricsInput) (*cloudwatch.ListMetricsOutput, error) {
			if aws.ToString(params.MetricName) == metricWindowsAvail {
				return listOutput(
					agentMetric(metricWindowsAvail, "InstanceId", "i-win", "objectname", "Memory"),
				), nil
			}
			return listOutput(), nil
		},
		getMetricData: func(params *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
			switch queryName(params) {
			case metricCPU:
				return valueOutput(5.0), nil
			case metricWindowsAvail:
				return valueOutput(2048.0), nil
			}
			return valueOutput(), nil
		},
	}

	metrics, err := c.FetchInstanceMetrics(context.Background(), "i-win")
	if err != nil {
		t.Fatalf("FetchInstanceMetrics failed: %v", err)
	}
	if metrics.Memory.UsedPercent != nil {
		t.Errorf("expected nil percent from available-only fallback, got %v", *metrics.Memory.UsedPercent)
	}
	if metrics.Memory.Note != "Available: 2048 MB" {
		t.Errorf("expected available note, got %q", metrics.Memory.Note)
	}
}

func TestPathAllowed(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/usr", true},
		{"/usr/sap", true},
		{"/hana/log", true},
		{"/tmp", false},
		{"/var", false},
	}
	for _, tt := range tests {
		if got := c.pathAllowed(tt.path); got != tt.want {
			t.Errorf("pathAllowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
