package handlers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/imscloud/ims/internal/domain/models"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	// Pending csv rows must reach the buffer before raw text does.
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	line = strings.TrimRight(line, "\r\n") + "\r\n"
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// writeReportCSV renders a report as metadata comments, the column header and the
// display rows.
func writeReportCSV(w io.Writer, report *models.Report) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment(fmt.Sprintf("# Report: %s", report.Title)); err != nil {
		return err
	}
	if err := streamer.writeComment(fmt.Sprintf("# Period: %s %s", report.Frequency, report.TargetDate)); err != nil {
		return err
	}
	for _, stat := range report.Summary {
		if err := streamer.writeComment(fmt.Sprintf("# %s: %s", stat.Label, stat.Display)); err != nil {
			return err
		}
	}
	if err := streamer.writeRow(report.Columns); err != nil {
		return err
	}
	if report.Empty {
		if err := streamer.writeComment("# " + report.Message); err != nil {
			return err
		}
	}
	for _, row := range report.Rows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Flush()
}

func reportFilename(report *models.Report) string {
	parts := []string{string(report.Type), string(report.Frequency), report.TargetDate}
	if report.Vendor != "" {
		parts = append(parts, strings.ToLower(strings.Join(strings.Fields(report.Vendor), "-")))
	}
	return strings.Join(parts, "-") + ".csv"
}
