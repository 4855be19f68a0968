package csvexport

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the filename timestamp, yyyy-MM-dd_HH-mm-ss.
const TimestampLayout = "2006-01-02_15-04-05"

// Writer writes CSV records in which every field, header included, is
// double-quoted and embedded quotes are doubled. Records are separated by
// "\n" with no trailing newline.
type Writer struct {
	buf  *bufio.Writer
	rows int
	err  error
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// Write writes a single record.
func (w *Writer) Write(record []string) error {
	if w.err != nil {
		return w.err
	}
	if w.rows > 0 {
		w.writeByte('\n')
	}
	for i, field := range record {
		if i > 0 {
			w.writeByte(',')
		}
		w.writeByte('"')
		w.writeString(strings.ReplaceAll(field, `"`, `""`))
		w.writeByte('"')
	}
	w.rows++
	return w.err
}

// WriteAll writes the header followed by all rows and flushes.
func (w *Writer) WriteAll(header []string, rows [][]string) error {
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Flush flushes the underlying buffer.
func (w *Writer) Flush() {
	if w.err != nil {
		return
	}
	w.err = w.buf.Flush()
}

// Error returns the first error encountered while writing or flushing.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) writeByte(b byte) {
	if w.err == nil {
		w.err = w.buf.WriteByte(b)
	}
}

func (w *Writer) writeString(s string) {
	if w.err == nil {
		_, w.err = w.buf.WriteString(s)
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_base}_{yyyy-MM-dd_HH-mm-ss}.{ext}.
func BuildFilename(base string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), at.Format(TimestampLayout), ext)
}
