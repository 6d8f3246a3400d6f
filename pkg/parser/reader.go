package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line the reader parses. Longer lines are
// skipped with the reason "Line too long".
const MaxLineSize = 1024 * 1024

const readBufferSize = 64 * 1024

// ParseFile reads and parses every line of the file at path.
func ParseFile(ctx context.Context, path string) (*FileResult, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	return ParseReader(ctx, f, path)
}

// ParseReader parses every line of r, labelling records and errors with
// source. Lines that fail to parse, including lines over MaxLineSize, are
// collected in the result, not returned as errors. The returned error is
// non-nil only when reading fails or ctx is cancelled.
func ParseReader(ctx context.Context, r io.Reader, source string) (*FileResult, error) {
	result := &FileResult{Source: source}

	br := bufio.NewReaderSize(r, readBufferSize)
	var line []byte
	tooLong := false

	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}

		// Keep at most MaxLineSize bytes; the rest of a long line is drained.
		if !tooLong {
			if room := MaxLineSize - len(line); len(frag) > room {
				line = append(line, frag[:room]...)
				tooLong = true
			} else {
				line = append(line, frag...)
			}
		}
		if isPrefix {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.LinesRead++
		if tooLong {
			result.Errors = append(result.Errors, &ParseError{
				Source:  source,
				LineNum: result.LinesRead,
				Content: string(line),
				Reason:  "Line too long",
			})
		} else if rec, err := ParseLine(string(line), source, result.LinesRead); err != nil {
			result.Errors = append(result.Errors, err.(*ParseError))
		} else {
			result.Records = append(result.Records, *rec)
		}

		line = line[:0]
		tooLong = false
	}

	return result, nil
}
