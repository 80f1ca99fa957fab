package domain

import "strings"

// PlatformFamily buckets a platform details string into the categories
// used by the summary section.
type PlatformFamily string

const (
	// PlatformWindows covers all Windows platform variants.
	PlatformWindows PlatformFamily = "Windows"
	// PlatformSUSE covers SUSE Linux platform variants.
	PlatformSUSE PlatformFamily = "SUSE Linux"
	// PlatformLinux covers Linux/UNIX and anything not matched above.
	PlatformLinux PlatformFamily = "Linux/UNIX"
)

// Families lists the platform families in summary display order.
func Families() []PlatformFamily {
	return []PlatformFamily{PlatformWindows, PlatformLinux, PlatformSUSE}
}

// FamilyOf classifies a raw platform details string. Anything that is
// neither Windows nor SUSE counts as Linux/UNIX.
func FamilyOf(platform string) PlatformFamily {
	switch {
	case strings.Contains(platform, "Windows"):
		return PlatformWindows
	case strings.Contains(platform, "SUSE"):
		return PlatformSUSE
	default:
		return PlatformLinux
	}
}

// PlatformCounts tallies instances by family and lifecycle state.
type PlatformCounts struct {
	Running map[PlatformFamily]int
	Stopped map[PlatformFamily]int
}

// CountByPlatform tallies a set of instances by platform family. Any
// non-running state counts as stopped, matching the summary table.
func CountByPlatform(instances map[string]Instance) PlatformCounts {
	counts := PlatformCounts{
		Running: make(map[PlatformFamily]int),
		Stopped: make(map[PlatformFamily]int),
	}
	for _, inst := range instances {
		family := FamilyOf(inst.Platform)
		if inst.Running() {
			counts.Running[family]++
		} else {
			counts.Stopped[family]++
		}
	}
	return counts
}

// Total returns running+stopped for one family.
func (c PlatformCounts) Total(f PlatformFamily) int {
	return c.Running[f] + c.Stopped[f]
}

// GrandTotal returns the fleet-wide (running, stopped) counts.
func (c PlatformCounts) GrandTotal() (running, stopped int) {
	for _, f := range Families() {
		running += c.Running[f]
		stopped += c.Stopped[f]
	}
	return running, stopped
}
