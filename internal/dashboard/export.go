package dashboard

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{
	"id", "username", "computer_name", "printer_name", "document_name",
	"pages", "copies", "total_pages", "is_color", "is_duplex", "status", "print_time",
}

// ExportCSV writes the rows of a rendered view as CSV. A pure transform of
// the current view: whatever filter and sort produced it is what lands in
// the file.
func ExportCSV(w io.Writer, view View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, job := range view.Rows {
		record := []string{
			strconv.Itoa(job.ID),
			job.Username,
			job.ComputerName,
			job.PrinterName,
			job.DocumentName,
			strconv.Itoa(job.Pages),
			strconv.Itoa(job.Copies),
			strconv.Itoa(job.TotalPages),
			strconv.FormatBool(job.IsColor),
			strconv.FormatBool(job.IsDuplex),
			job.Status,
			job.PrintTime.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
