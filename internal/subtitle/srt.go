package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sublyze/backend/internal/transcribe"
)

var timestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[.,]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[.,]\d{3})`)

// Compose renders segments as SRT text. Segments whose text is empty
// after trimming are skipped and the 1-based index sequence compacts, so
// indices remain contiguous over the emitted blocks.
func Compose(segments []transcribe.Segment) string {
	var sb strings.Builder
	index := 0

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		index++
		sb.WriteString(strconv.Itoa(index))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End)))
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// Save writes subtitle text to path and returns the path unchanged.
func Save(text, path string) (string, error) {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("save subtitle: %w", err)
	}
	return path, nil
}

// Parse reads SRT (or VTT-timestamped) text back into segments.
func Parse(content string) []transcribe.Segment {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var segs []transcribe.Segment
	var current *transcribe.Segment

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil && current.Text != "" {
				segs = append(segs, *current)
				current = nil
			}
			continue
		}

		if matches := timestampRe.FindStringSubmatch(line); len(matches) == 3 {
			if current != nil && current.Text != "" {
				segs = append(segs, *current)
			}
			current = &transcribe.Segment{
				Start: ParseTimestamp(matches[1]),
				End:   ParseTimestamp(matches[2]),
			}
			continue
		}

		// Skip block index numbers (pure digits before a timestamp line)
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}

	if current != nil && current.Text != "" {
		segs = append(segs, *current)
	}

	return segs
}

var msPerSecond = decimal.NewFromInt(1000)

// FormatTimestamp renders seconds as the SRT HH:MM:SS,mmm form. The
// millisecond rounding runs in decimal arithmetic so half-millisecond
// values round up instead of drifting with the float representation.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := decimal.NewFromFloat(seconds).Mul(msPerSecond).Round(0).IntPart()
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp reads HH:MM:SS,mmm (or the dot form) into seconds. The
// fractional seconds parse exactly; only the final result converts to
// float.
func ParseTimestamp(ts string) float64 {
	parts := strings.Split(strings.Replace(ts, ",", ".", 1), ":")
	if len(parts) != 3 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, err := decimal.NewFromString(parts[2])
	if err != nil {
		return 0
	}
	f, _ := sec.Add(decimal.NewFromInt(int64(h)*3600 + int64(m)*60)).Float64()
	return f
}
