package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"cprcheck/internal/decoder"
	dErrors "cprcheck/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// result is the printable form of one decoded number. It only ever carries
// the redacted display, never the digits.
type result struct {
	Index         int    `json:"index"`
	Display       string `json:"display,omitempty"`
	ChecksumValid bool   `json:"checksumValid"`
	Substitute    bool   `json:"substitute"`
	Birthday      string `json:"birthday,omitempty"`
	Sex           string `json:"sex,omitempty"`
	Age           *int   `json:"age,omitempty"`
	Status        string `json:"status,omitempty"`
	Code          string `json:"code,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Error         string `json:"error,omitempty"`
}

func newResult(index int, report *decoder.Report, err error) result {
	r := result{Index: index}
	if err != nil {
		r.Code = string(dErrors.CodeOf(err))
		r.Reason = dErrors.ReasonOf(err)
		r.Error = err.Error()
		return r
	}

	r.Display = report.Display
	r.ChecksumValid = report.ChecksumValid
	r.Substitute = report.Substitute
	r.Sex = report.Sex.String()
	if report.HasBirthday {
		r.Birthday = report.Birthday.Format(dateLayout)
	}
	if report.HasAge {
		age := report.Age
		r.Age = &age
	}
	return r
}

func newResults(outcomes []decoder.Outcome) []result {
	results := make([]result, len(outcomes))
	for i, o := range outcomes {
		results[i] = newResult(o.Index, o.Report, o.Err)
	}
	return results
}

func (r result) failed() bool {
	return r.Error != ""
}

func writeResults(w io.Writer, format string, results []result) error {
	switch format {
	case "text":
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r.text()); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", " ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r result) text() string {
	if r.failed() {
		label := "error"
		if r.Status != "" {
			label = r.Status
		}
		if r.Reason != "" {
			label = fmt.Sprintf("%s (%s)", label, r.Reason)
		}
		return fmt.Sprintf("#%d  %s", r.Index, color.Red.Sprintf("%s: %s", label, r.Error))
	}

	checksum := color.Green.Sprint("valid")
	if !r.ChecksumValid {
		checksum = color.Red.Sprint("invalid")
	}
	fields := []string{
		r.Display,
		"checksum=" + checksum,
		"substitute=" + yesNo(r.Substitute),
		"birthday=" + orDash(r.Birthday),
		"sex=" + r.Sex,
	}
	if r.Age != nil {
		fields = append(fields, fmt.Sprintf("age=%d", *r.Age))
	} else {
		fields = append(fields, "age=-")
	}
	if r.Status != "" {
		fields = append(fields, "status="+color.Green.Sprint(r.Status))
	}
	return strings.Join(fields, "  ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
