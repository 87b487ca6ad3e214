// Package stream decouples value production from statistics accumulation.
//
// A Source hands out values one at a time; a Driver pulls from a Source and
// applies each value to every registered Updater in a plain loop. The driver
// knows nothing about updater internals, so mean, variance, max, and custom
// reducers are all driven the same way.
package stream

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Mifour/hexpresso/internal/errors"
)

// Source produces a bounded or unbounded sequence of values. Next returns
// io.EOF when the sequence is exhausted. Any other error ends the stream.
type Source interface {
	Next() (float64, error)
}

// =============================================================================
// Slice source
// =============================================================================

// SliceSource replays an in-memory slice of values.
type SliceSource struct {
	values []float64
	pos    int
}

// NewSliceSource creates a source over values. The slice is read, not copied;
// callers must not mutate it while the source is being driven.
func NewSliceSource(values []float64) *SliceSource {
	return &SliceSource{values: values}
}

// Next returns the next value, or io.EOF past the end.
func (s *SliceSource) Next() (float64, error) {
	if s.pos >= len(s.values) {
		return 0, io.EOF
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// =============================================================================
// Channel source
// =============================================================================

// ChannelSource pulls values from a channel, ending the stream when the
// channel is closed. Next blocks while the channel is open but empty; for
// cancellable streams close the channel from the producer side.
type ChannelSource struct {
	ch <-chan float64
}

// NewChannelSource creates a source over ch.
func NewChannelSource(ch <-chan float64) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next returns the next received value, or io.EOF once ch is closed.
func (s *ChannelSource) Next() (float64, error) {
	v, ok := <-s.ch
	if !ok {
		return 0, io.EOF
	}
	return v, nil
}

// =============================================================================
// Reader source
// =============================================================================

// ReaderSource parses one floating-point value per line from an io.Reader.
// Blank lines are ignored. A line that does not parse yields a *ParseError
// carrying the line number, the raw token, and the partition label.
type ReaderSource struct {
	scanner   *bufio.Scanner
	partition string // empty outside partitioned reads
	line      int
}

// NewReaderSource creates a source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

// NewPartitionReaderSource creates a source whose parse errors are labelled
// with the given partition identifier.
func NewPartitionReaderSource(r io.Reader, partition string) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r), partition: partition}
}

// Next returns the next parsed value, io.EOF at end of input, a *ParseError
// for a malformed line, or the underlying read error.
func (s *ReaderSource) Next() (float64, error) {
	for s.scanner.Scan() {
		s.line++
		token := strings.TrimSpace(s.scanner.Text())
		if token == "" {
			continue
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, &errors.ParseError{
				Partition: s.partition,
				Line:      s.line,
				Token:     token,
				Err:       err,
			}
		}
		return v, nil
	}
	if err := s.scanner.Err(); err != nil {
		return 0, err
	}
	return 0, io.EOF
}

// Line returns the number of lines consumed so far.
func (s *ReaderSource) Line() int {
	return s.line
}
