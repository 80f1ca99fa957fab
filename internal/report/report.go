// Package report renders the collected fleet inventory and metrics into
// the formatted spreadsheet artifact, and classifies utilization readings
// against the alert thresholds.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// Params carries everything the renderer needs for one report.
type Params struct {
	AccountName   string
	AccountNumber string
	Region        string
	SheetName     string

	// Instances is the full inventory, running and stopped.
	Instances map[string]domain.Instance

	// Metrics holds collection results for running instances.
	Metrics map[string]domain.InstanceMetrics

	// Specs maps instance type to its size-class specification.
	Specs map[string]domain.InstanceSpec

	// GeneratedAt stamps the trailing footer; zero means time.Now.
	GeneratedAt time.Time
}

// detailHeaders are the per-instance metric table columns.
var detailHeaders = []string{"Metric Type", "Path", "Used % (Current)", "Free % (Current)"}

// istOffset converts the footer timestamp from UTC to IST.
const istOffset = 5*time.Hour + 30*time.Minute

// Render produces the finished workbook as bytes: a summary section
// (title, account info, platform counts, alert tables) followed by one
// detail block per instance.
func Render(p Params) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := p.SheetName
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("report: failed to name sheet: %w", err)
	}

	r := &renderer{f: f, sheet: sheet, row: 1}
	if err := r.buildStyles(); err != nil {
		return nil, fmt.Errorf("report: failed to build styles: %w", err)
	}

	r.summary(p)
	r.details(p)
	r.footer(p.GeneratedAt)

	if r.err != nil {
		return nil, fmt.Errorf("report: failed to render: %w", r.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// renderer tracks the cursor row and sticky error while laying out cells.
type renderer struct {
	f     *excelize.File
	sheet string
	row   int
	err   error

	styles struct {
		title        int // bold 16, centered
		bold         int
		bold14       int
		center       int // thin border, centered
		centerBold   int
		headerThick  int // bold, centered, thick top/bottom
		totalsThick  int // bold, centered, thick top/bottom
		colHeader    int // bold, centered, thin top, thick bottom
		warnBanner   int // yellow fill banner
		critBanner   int // red fill banner, white text
		usedWarning  int // centered thin-border cell, yellow fill
		usedCritical int // centered thin-border cell, red fill
	}
}

func (r *renderer) buildStyles() error {
	thin := func(types ...string) []excelize.Border {
		borders := make([]excelize.Border, 0, len(types))
		for _, t := range types {
			borders = append(borders, excelize.Border{Type: t, Color: "000000", Style: 1})
		}
		return borders
	}
	// Thin sides, thick top and bottom.
	thickTopBottom := []excelize.Border{
		{Type: "top", Color: "000000", Style: 5},
		{Type: "bottom", Color: "000000", Style: 5},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	colHeaderBorder := []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 5},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	var err error
	newStyle := func(dst *int, style *excelize.Style) {
		if err != nil {
			return
		}
		*dst, err = r.f.NewStyle(style)
	}

	newStyle(&r.styles.title, &excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16}, Alignment: centered,
	})
	newStyle(&r.styles.bold, &excelize.Style{Font: &excelize.Font{Bold: true}})
	newStyle(&r.styles.bold14, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	newStyle(&r.styles.center, &excelize.Style{
		Alignment: centered, Border: thin("top", "bottom", "left", "right"),
	})
	newStyle(&r.styles.centerBold, &excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: centered,
		Border: thin("top", "bottom", "left", "right"),
	})
	newStyle(&r.styles.headerThick, &excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: centered, Border: thickTopBottom,
	})
	newStyle(&r.styles.totalsThick, &excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: centered, Border: thickTopBottom,
	})
	newStyle(&r.styles.colHeader, &excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: centered, Border: colHeaderBorder,
	})
	newStyle(&r.styles.warnBanner, &excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "000000"}, Alignment: centered,
		Fill: fill("FFFF00"), Border: thickTopBottom,
	})
	newStyle(&r.styles.critBanner, &excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Alignment: centered,
		Fill: fill("FF0000"), Border: thickTopBottom,
	})
	newStyle(&r.styles.usedWarning, &excelize.Style{
		Alignment: centered, Border: thin("top", "bottom", "left", "right"),
		Fill: fill("FFFF00"),
	})
	newStyle(&r.styles.usedCritical, &excelize.Style{
		Alignment: centered, Border: thin("top", "bottom", "left", "right"),
		Fill: fill("FF0000"),
	})
	return err
}

// --- low level helpers ---

func (r *renderer) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && r.err == nil {
		r.err = err
	}
	return name
}

func (r *renderer) set(col int, value interface{}) {
	if err := r.f.SetCellValue(r.sheet, r.cell(col, r.row), value); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *renderer) style(fromCol, toCol, styleID int) {
	err := r.f.SetCellStyle(r.sheet, r.cell(fromCol, r.row), r.cell(toCol, r.row), styleID)
	if err != nil && r.err == nil {
		r.err = err
	}
}

func (r *renderer) styleAt(col, row, styleID int) {
	err := r.f.SetCellStyle(r.sheet, r.cell(col, row), r.cell(col, row), styleID)
	if err != nil && r.err == nil {
		r.err = err
	}
}

func (r *renderer) merge(fromCol, toCol int) {
	if err := r.f.MergeCell(r.sheet, r.cell(fromCol, r.row), r.cell(toCol, r.row)); err != nil && r.err == nil {
		r.err = err
	}
}

// boldLine writes a single bold label cell and advances one row.
func (r *renderer) boldLine(text string) {
	r.set(1, text)
	r.style(1, 1, r.styles.bold)
	r.row++
}

// --- summary section ---

func (r *renderer) summary(p Params) {
	r.set(1, "EC2 Instance Metrics Summary Report")
	r.merge(1, 4)
	r.style(1, 4, r.styles.title)
	r.row += 2

	for _, line := range [][2]string{
		{"Account Name:", p.AccountName},
		{"Account Number:", p.AccountNumber},
		{"Region:", p.Region},
	} {
		r.set(1, line[0])
		r.style(1, 1, r.styles.bold)
		r.set(2, line[1])
		r.row++
	}
	r.row++

	r.platformTable(p)
	r.alertTables(p)

	separator := "=================================================="
	r.set(1, separator)
	r.merge(1, 4)
	r.row++
	r.set(1, "DETAILED INSTANCE METRICS")
	r.merge(1, 4)
	r.style(1, 4, r.styles.bold14)
	r.row++
	r.set(1, separator)
	r.merge(1, 4)
	r.row += 2
}

func (r *renderer) platformTable(p Params) {
	counts := domain.CountByPlatform(p.Instances)

	for col, h := range []string{"Instance Types", "Running", "Stopped", "Total"} {
		r.set(col+1, h)
	}
	r.style(1, 4, r.styles.headerThick)
	r.row++

	for _, family := range domain.Families() {
		r.set(1, string(family))
		r.set(2, counts.Running[family])
		r.set(3, counts.Stopped[family])
		r.set(4, counts.Total(family))
		r.style(1, 4, r.styles.center)
		r.row++
	}

	running, stopped := counts.GrandTotal()
	r.set(1, "Total Servers")
	r.set(2, running)
	r.set(3, stopped)
	r.set(4, running+stopped)
	r.style(1, 4, r.styles.totalsThick)
	r.row += 3
}

func (r *renderer) alertTables(p Params) {
	warnings, criticals := CollectAlerts(p.Instances, p.Metrics)

	r.alertTable("Warning", r.styles.warnBanner, warnings)
	r.alertTable("Action Required", r.styles.critBanner, criticals)
	r.row++
}

// alertTable renders one banner + column header + rows block, or nothing
// when the alert list is empty.
func (r *renderer) alertTable(banner string, bannerStyle int, alerts []Alert) {
	if len(alerts) == 0 {
		return
	}

	r.set(1, banner)
	r.merge(1, 3)
	r.style(1, 3, bannerStyle)
	r.row++

	for col, h := range []string{"Instance Name", "Metric", "Utilization"} {
		r.set(col+1, h)
	}
	r.style(1, 3, r.styles.colHeader)
	r.row++

	for _, alert := range alerts {
		r.set(1, alert.InstanceName)
		r.set(2, alert.Metric)
		r.set(3, alert.Utilization)
		r.style(1, 3, r.styles.center)
		r.row++
	}
	r.row += 2
}

// --- detail blocks ---

func (r *renderer) details(p Params) {
	ids := make([]string, 0, len(p.Instances))
	for id := range p.Instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r.instanceBlock(p, p.Instances[id])
	}
}

func (r *renderer) instanceBlock(p Params, inst domain.Instance) {
	spec := p.Specs[inst.InstanceType]
	vcpus, memory := "Unknown", "Unknown"
	if spec.Known {
		vcpus = fmt.Sprintf("%d", spec.VCPUs)
		memory = fmt.Sprintf("%g", spec.MemoryGB)
	}

	r.set(1, fmt.Sprintf("Instance ID: %s", inst.ID))
	r.style(1, 1, r.styles.bold14)
	r.row++
	r.boldLine(fmt.Sprintf("Instance Name: %s", inst.Name))
	r.boldLine(fmt.Sprintf("OS Type: %s", inst.Platform))
	r.boldLine(fmt.Sprintf("Instance Type: %s", inst.InstanceType))
	r.boldLine(fmt.Sprintf("vCPU Count: %s", vcpus))
	r.boldLine(fmt.Sprintf("Memory: %s GB", memory))
	r.boldLine(fmt.Sprintf("State: %s", inst.State))
	r.row++

	switch {
	case !inst.Running():
		r.set(1, "Metrics: Not available (instance stopped)")
		r.row++
	default:
		data, ok := p.Metrics[inst.ID]
		if !ok {
			r.set(1, "Metrics: Not available (No metrics data)")
			r.row++
		} else if data.Failed() {
			r.set(1, fmt.Sprintf("Metrics: Not available (%s)", data.Err))
			r.row++
		} else {
			r.metricTable(data)
		}
	}

	r.row += 2
}

func (r *renderer) metricTable(data domain.InstanceMetrics) {
	for col, h := range detailHeaders {
		r.set(col+1, h)
	}
	r.style(1, len(detailHeaders), r.styles.centerBold)
	r.row++

	r.metricRow("CPU", "", data.CPU)
	r.metricRow("Memory", data.Memory.Note, data.Memory.UsedPercent)

	if len(data.Disks) == 0 {
		r.set(1, "Disk")
		r.set(2, "No disk metrics available")
		r.set(3, "NA")
		r.set(4, "NA")
		r.style(1, 4, r.styles.center)
		r.row++
		return
	}
	for _, disk := range data.Disks {
		r.metricRow("Disk", disk.Path, disk.UsedPercent)
	}
}

// metricRow writes one Metric/Path/Used/Free row. The used cell gets the
// threshold fill when the reading breaches a tier.
func (r *renderer) metricRow(metricType, path string, used *float64) {
	r.set(1, metricType)
	if path != "" {
		r.set(2, path)
	}
	r.style(1, 4, r.styles.center)

	if used == nil {
		r.set(3, "NA")
		r.set(4, "NA")
		r.row++
		return
	}

	rounded := round1(*used)
	r.set(3, rounded)
	r.set(4, round1(100-rounded))
	if tier, ok := Classify(rounded); ok {
		if tier == TierCritical {
			r.styleAt(3, r.row, r.styles.usedCritical)
		} else {
			r.styleAt(3, r.row, r.styles.usedWarning)
		}
	}
	r.row++
}

func (r *renderer) footer(generatedAt time.Time) {
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	ist := generatedAt.UTC().Add(istOffset)

	r.set(1, "Report Generated At")
	r.style(1, 1, r.styles.bold)
	r.set(2, ist.Format("2006-01-02 15:04:05")+" IST")
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
