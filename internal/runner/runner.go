// Package runner drives one report generation end to end: identity,
// inventory, metric collection, rendering, and publication.
package runner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/config"
	"github.com/sachinbhirud1998/Status/internal/domain"
	"github.com/sachinbhirud1998/Status/internal/report"
)

// Inventory lists the fleet and resolves per-type and account attributes.
type Inventory interface {
	ListInstances(ctx context.Context) (map[string]domain.Instance, error)
	InstanceSpec(ctx context.Context, instanceType string) domain.InstanceSpec
	AccountNumber(ctx context.Context) string
}

// MetricsCollector gathers utilization for the running part of the fleet.
type MetricsCollector interface {
	Collect(ctx context.Context, instances map[string]domain.Instance) map[string]domain.InstanceMetrics
}

// ReportPublisher stores the finished workbook.
type ReportPublisher interface {
	Publish(ctx context.Context, body []byte, generatedAt time.Time) (string, error)
	Bucket() string
}

// Result is the invocation outcome reported back to the trigger: a
// status/message pair, not a process exit code.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Outcome carries everything one run produced, for callers that want
// more than the status pair (the CLI summary, the run log).
type Outcome struct {
	AccountNumber string
	Instances     map[string]domain.Instance
	Metrics       map[string]domain.InstanceMetrics
	Warnings      []report.Alert
	Criticals     []report.Alert
	Workbook      []byte
	Bucket        string
	Key           string
	GeneratedAt   time.Time
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg       *config.Config
	inventory Inventory
	collector MetricsCollector
	publisher ReportPublisher
	log       *zap.Logger

	// SkipUpload renders the workbook but leaves it unpublished.
	SkipUpload bool
}

// New creates a Runner.
func New(cfg *config.Config, inv Inventory, coll MetricsCollector, pub ReportPublisher, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, inventory: inv, collector: coll, publisher: pub, log: log}
}

// Run executes the full pipeline and returns the detailed outcome.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{GeneratedAt: time.Now().UTC()}

	out.AccountNumber = r.inventory.AccountNumber(ctx)
	r.log.Info("starting report run",
		zap.String("account", out.AccountNumber),
		zap.String("region", r.cfg.Region))

	instances, err := r.inventory.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	out.Instances = instances
	r.log.Info("inventory collected", zap.Int("instances", len(instances)))

	out.Metrics = r.collector.Collect(ctx, instances)
	r.log.Info("metrics collected", zap.Int("running_instances", len(out.Metrics)))

	specs := make(map[string]domain.InstanceSpec)
	for _, inst := range instances {
		if _, ok := specs[inst.InstanceType]; !ok {
			specs[inst.InstanceType] = r.inventory.InstanceSpec(ctx, inst.InstanceType)
		}
	}

	out.Warnings, out.Criticals = report.CollectAlerts(instances, out.Metrics)

	out.Workbook, err = report.Render(report.Params{
		AccountName:   r.cfg.AccountName,
		AccountNumber: out.AccountNumber,
		Region:        r.cfg.Region,
		SheetName:     r.cfg.SheetName,
		Instances:     instances,
		Metrics:       out.Metrics,
		Specs:         specs,
		GeneratedAt:   out.GeneratedAt,
	})
	if err != nil {
		return nil, err
	}

	if r.SkipUpload {
		return out, nil
	}

	out.Key, err = r.publisher.Publish(ctx, out.Workbook, out.GeneratedAt)
	if err != nil {
		return nil, err
	}
	out.Bucket = r.publisher.Bucket()

	return out, nil
}

// Execute runs the pipeline and reduces it to the invocation contract.
// Panics anywhere in the run are caught here and reported as a failure
// status; there is no retry and no partial-upload recovery.
func (r *Runner) Execute(ctx context.Context) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("report run panicked", zap.Any("panic", p))
			result = Result{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error: %v", p),
			}
		}
	}()

	out, err := r.Run(ctx)
	if err != nil {
		r.log.Error("report run failed", zap.Error(err))
		return Result{
			StatusCode: http.StatusInternalServerError,
			Body:       fmt.Sprintf("Error: %v", err),
		}
	}

	return Result{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("Report uploaded to s3://%s/%s", out.Bucket, out.Key),
	}
}
