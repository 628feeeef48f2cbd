package remind

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	appLog "remind/internal/log"
	"remind/internal/model"
)

const separatorPrefix = "separator:"

// maxLineLength bounds a single line; longer lines are skipped with a
// diagnostic instead of being buffered.
const maxLineLength = 1 << 20

var reSeparatorLine = regexp.MustCompile(`^separator:.{1,3}$`)

// Result is the outcome of parsing one reminder file.
type Result struct {
	// Separator is the literal declared on the separator line.
	Separator string

	// Events are in file order; a weekday list contributes one Event per day.
	Events []model.Event

	// Diagnostics holds one *Error per skipped line.
	Diagnostics []error
}

// ParseSeparator reports whether line declares the file separator and
// returns the declared characters verbatim.
func ParseSeparator(line string) (string, bool) {
	if !reSeparatorLine.MatchString(line) {
		return "", false
	}
	return strings.TrimPrefix(line, separatorPrefix), true
}

// SplitLine splits an event line on the first occurrence of sep into the
// date expression and the description, both trimmed.
func SplitLine(sep, line string) (string, string, error) {
	expr, desc, found := strings.Cut(line, sep)
	if !found {
		return "", "", newError(KindMalformedLine, 0, line, nil)
	}
	return strings.TrimSpace(expr), strings.TrimSpace(desc), nil
}

// ParseFile opens path and parses it. A missing file is reported as
// KindFileNotFound.
func ParseFile(path string, now time.Time) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, newError(KindFileNotFound, 0, path, err)
		}
		return Result{}, fmt.Errorf("remind: open %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f, now)
	if err != nil {
		return Result{}, fmt.Errorf("remind: %s: %w", path, err)
	}
	return res, nil
}

// Parse reads a reminder file and resolves every event line relative to
// now. Lines before the separator declaration are ignored.
//
// A missing separator declaration is fatal. Lines without the separator
// and lines whose date cannot be resolved are logged, recorded in
// Result.Diagnostics and skipped; the rest of the file is still parsed.
func Parse(r io.Reader, now time.Time) (Result, error) {
	var res Result
	haveSeparator := false

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, tooLong, err := readLine(br)
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return Result{}, fmt.Errorf("remind: read: %w", err)
		}
		if eof && line == "" && !tooLong {
			break
		}

		switch {
		case tooLong:
			if haveSeparator {
				lerr := newError(KindMalformedLine, lineNo, "", fmt.Errorf("line longer than %d bytes", maxLineLength))
				appLog.Error("reminder line skipped", lerr, "line", lineNo)
				res.Diagnostics = append(res.Diagnostics, lerr)
			}
		case strings.TrimSpace(line) == "":
		case !haveSeparator:
			if sep, ok := ParseSeparator(line); ok {
				res.Separator = sep
				haveSeparator = true
				appLog.Debug("separator found", "line", lineNo, "separator", sep)
			}
		default:
			events, lerr := parseEventLine(res.Separator, line, lineNo, now)
			if lerr != nil {
				appLog.Error("reminder line skipped", lerr, "line", lineNo)
				res.Diagnostics = append(res.Diagnostics, lerr)
			} else {
				res.Events = append(res.Events, events...)
			}
		}

		if eof {
			break
		}
	}

	if !haveSeparator {
		return Result{}, newError(KindSeparatorMissing, 0, "", nil)
	}

	appLog.Debug("reminder file parsed", "event_count", len(res.Events), "skipped", len(res.Diagnostics))
	return res, nil
}

// readLine returns the next line without its terminator. A line longer
// than maxLineLength is consumed and reported with tooLong set. err is
// io.EOF once the input is exhausted; line may still hold a final
// unterminated line.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return strings.TrimRight(string(buf), "\r"), tooLong, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLength {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return strings.TrimRight(string(buf), "\r"), tooLong, nil
		}
	}
}

func parseEventLine(sep, line string, lineNo int, now time.Time) ([]model.Event, error) {
	expr, desc, err := SplitLine(sep, line)
	if err != nil {
		return nil, withLine(err, lineNo)
	}

	dates, err := ParseDateExpression(expr, now)
	if err != nil {
		return nil, withLine(err, lineNo)
	}

	events := make([]model.Event, 0, len(dates))
	for _, d := range dates {
		events = append(events, model.Event{
			Description: desc,
			Date:        d,
			Line:        lineNo,
		})
	}
	return events, nil
}

// withLine stamps the line number onto errors produced by the
// line-agnostic helpers.
func withLine(err error, lineNo int) error {
	var re *Error
	if errors.As(err, &re) {
		re.Line = lineNo
		return re
	}
	return err
}
