package timer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// exportRecord is one exported task in JSON form.
type exportRecord struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Start string   `json:"start"`
	End   string   `json:"end"`
}

// Export writes the tasks in [from, to] matching f to a file named
// YYYYMMDD.<format> in the OS temp directory and returns its path.
// A non-empty f selects exact matches; an empty one exports everything.
func (t *Timer) Export(format string, from, to time.Time, f domain.FullName) (string, error) {
	tasks, err := t.List(from, to, f, !f.IsEmpty(), true)
	if err != nil {
		return "", err
	}
	now := t.now()
	path := filepath.Join(os.TempDir(), now.Format("20060102")+"."+format)

	fp, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer fp.Close()

	switch format {
	case FormatCSV:
		if err := writeCSV(fp, tasks, now); err != nil {
			return "", err
		}
	case FormatJSON:
		if err := writeJSON(fp, tasks, now); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	return path, nil
}

// writeCSV emits one row per name/tag pair, with an empty tag column
// for tag-less tasks, ordered by start.
func writeCSV(fp *os.File, tasks []domain.Task, now time.Time) error {
	w := csv.NewWriter(fp)
	for _, task := range tasks {
		start := task.Start.Format(time.RFC3339)
		end := endOrNow(task, now).Format(time.RFC3339)
		tags := domain.NormalizeTags(task.Tags)
		if len(tags) == 0 {
			tags = []string{""}
		}
		for _, tag := range tags {
			if err := w.Write([]string{task.Name, tag, start, end}); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(fp *os.File, tasks []domain.Task, now time.Time) error {
	records := make([]exportRecord, 0, len(tasks))
	for _, task := range tasks {
		tags := domain.NormalizeTags(task.Tags)
		if tags == nil {
			tags = []string{}
		}
		records = append(records, exportRecord{
			Name:  task.Name,
			Tags:  tags,
			Start: task.Start.Format(time.RFC3339),
			End:   endOrNow(task, now).Format(time.RFC3339),
		})
	}
	enc := json.NewEncoder(fp)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}

func endOrNow(task domain.Task, now time.Time) time.Time {
	if task.IsRunning() {
		return now
	}
	return task.End
}
