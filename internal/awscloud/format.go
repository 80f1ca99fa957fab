package awscloud

import "fmt"

// formatAvailableNote renders the Windows available-memory fallback note.
func formatAvailableNote(mb float64) string {
	return fmt.Sprintf("Available: %.0f MB", mb)
}
