// Package export renders enrollment history for use outside the bot and
// ships it to S3-compatible storage when configured.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/krsbot-dev/krsbot/internal/models"
)

var csvHeader = []string{"id", "account_id", "action", "course_id", "course_name", "status", "message", "created_at"}

// WriteCSV renders entries in the order given, one row per attempt, with
// RFC 3339 timestamps.
func WriteCSV(w io.Writer, entries []*models.EnrollmentLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.ID,
			e.AccountID,
			string(e.Action),
			e.CourseID,
			e.CourseName,
			string(e.Status),
			e.Message,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
