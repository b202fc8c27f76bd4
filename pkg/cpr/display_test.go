package cpr_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cprcheck/pkg/cpr"
)

// leaks reports which field values of r appear in s, with or without
// leading zeros.
func leaks(r cpr.Record, s string) []string {
	fields := []struct {
		value uint
		width int
	}{
		{r.Day(), 2}, {r.Month(), 2}, {r.YearDigits(), 2}, {r.Serial(), 4},
	}
	var found []string
	for _, f := range fields {
		for _, form := range []string{
			strconv.FormatUint(uint64(f.value), 10),
			fmt.Sprintf("%0*d", f.width, f.value),
		} {
			if strings.Contains(s, form) {
				found = append(found, form)
			}
		}
	}
	return found
}

func sampleRecords() []cpr.Record {
	records := []cpr.Record{
		{},
		cpr.MustParse("070761-4285"),
		cpr.MustParse("999999-9999"),
		cpr.Of(100, 100, 100, 12345),
		cpr.Of(^uint(0), ^uint(0), ^uint(0), ^uint(0)),
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		records = append(records, cpr.Of(
			uint(rng.Intn(1000)), uint(rng.Intn(1000)), uint(rng.Intn(1000)), uint(rng.Intn(100000)),
		))
	}
	return records
}

func TestRedactedDisplay_NeverContainsFieldValues(t *testing.T) {
	for _, r := range sampleRecords() {
		got := cpr.RedactedDisplay(r)
		assert.Equal(t, cpr.Redacted, got)
		assert.Empty(t, leaks(r, got))
	}
}

func TestRedactedDisplay_GenericRenderings(t *testing.T) {
	r := cpr.MustParse("070761-4285")

	renderings := map[string]string{
		"String":   r.String(),
		"GoString": r.GoString(),
		"%v":       fmt.Sprintf("%v", r),
		"%+v":      fmt.Sprintf("%+v", r),
		"%#v":      fmt.Sprintf("%#v", r),
		"%s":       fmt.Sprintf("%s", r),
		"%d":       fmt.Sprintf("%d", r),
		"%q":       fmt.Sprintf("%q", r),
		"%x":       fmt.Sprintf("%x", r),
		"pointer":  fmt.Sprintf("%v", &r),
		"slice":    fmt.Sprint([]cpr.Record{r, r}),
		"struct":   fmt.Sprintf("%+v", struct{ R cpr.Record }{r}),
		"error":    fmt.Errorf("decode %v failed", r).Error(),
	}

	for name, got := range renderings {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, got, cpr.Redacted)
			assert.Empty(t, leaks(r, got), "leaked in %q", got)
		})
	}
}

func TestRedactedDisplay_JSON(t *testing.T) {
	r := cpr.MustParse("070761-4285")

	out, err := json.Marshal(map[string]any{"subject": r})
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject":"XXXXXX-XXXX"}`, string(out))

	out, err = json.Marshal(map[cpr.Record]bool{r: true})
	require.NoError(t, err)
	assert.Empty(t, leaks(r, string(out)))
}

func TestRedactedDisplay_Slog(t *testing.T) {
	r := cpr.MustParse("070761-4285")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	logger.Info("decoded", "subject", r, slog.Any("record", r), slog.Group("nested", "r", r))

	assert.Contains(t, buf.String(), cpr.Redacted)
	assert.Empty(t, leaks(r, buf.String()))
}
