package tasks

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadManifest Phase = iota
	LoadFile
	InsertRows
	SeedComplete
)

func (p Phase) String() string {
	switch p {
	case ReadManifest:
		return "read_manifest"
	case LoadFile:
		return "load_file"
	case InsertRows:
		return "insert_rows"
	case SeedComplete:
		return "seed_complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func readManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadManifest,
		Message: fmt.Sprintf("Reading manifest %s...", filepath.Base(path)),
	}
}

func loadFileUpdate(step, total int, file, table string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Loading %s into %s...", step, total, file, table),
	}
}

func insertRowsUpdate(step, total int, result SeededFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Inserted %d rows into %s", step, total, result.Rows, result.Table),
		Data:    result,
	}
}

func seedCompleteUpdate(report *SeedReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedComplete,
		Step:    len(report.Files),
		Total:   len(report.Files),
		Message: fmt.Sprintf("Seeded %d rows from %d files", report.Total, len(report.Files)),
		Data:    report,
	}
}
