// Package cjseq implements the SequenceValidator state machine (spec
// §4.6): a CityJSONSeq stream is a CityJSON header line followed by
// CityJSONFeature lines, each validated against the header's shared
// schema registry, extension store, and vertex table.
package cjseq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cityjson/cjval/cityjson"
	"github.com/cityjson/cjval/internal/jsonio"
	"github.com/cityjson/cjval/report"
)

// ErrEmptyStream is returned when the input has no non-blank lines at all.
var ErrEmptyStream = errors.New("empty CityJSONSeq stream")

// ErrFeatureBeforeHeader is returned when a line claims to be a
// CityJSONFeature before a header line has established the stream.
var ErrFeatureBeforeHeader = errors.New("CityJSONFeature line before header")

// state is the SequenceValidator's place in its lifecycle (spec §4.6).
type state int

const (
	stateExpectingHeader state = iota
	stateStreaming
	stateTerminated
)

// LineReport is one line's validation outcome, tagged with its 1-based
// line number (counting only non-blank lines; the header is line 1).
type LineReport struct {
	Line   int
	Report *report.Report
}

// Summary is the end-of-stream tally (spec §4.6 Terminated).
type Summary struct {
	TotalLines   int
	ErrorLines   []int
	WarningLines []int
}

// SequenceValidator consumes a CityJSONSeq stream line by line, sharing
// one header Validator's schemas and extensions across every feature line
// (spec §4.6: "loading them per line is a defect to avoid").
type SequenceValidator struct {
	state  state
	header *cityjson.Validator
	lines  []LineReport

	logger     *slog.Logger
	runID      uuid.UUID
	lineNo     int
	extensions [][]byte
}

// New returns a SequenceValidator ready to consume a stream's first line.
// A nil logger falls back to [slog.Default]. extensions are raw local
// Extension document bytes (the CLI's "-e" equivalent for a stream);
// each is registered on the header Validator as soon as the header line
// is parsed, so it applies to the header and to every feature line that
// shares its registry.
func New(logger *slog.Logger, extensions ...[]byte) *SequenceValidator {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New()

	return &SequenceValidator{
		state:      stateExpectingHeader,
		logger:     logger.With(slog.String("cjseq_run", id.String())),
		runID:      id,
		extensions: extensions,
	}
}

// ConsumeLine processes one physical line of input. Blank lines are
// skipped without affecting the line counter (spec §4.6: "blank lines are
// skipped"). The first non-blank line must be a CityJSON header; every
// line after that must be a CityJSONFeature.
func (s *SequenceValidator) ConsumeLine(raw []byte) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	s.lineNo++

	switch s.state {
	case stateExpectingHeader:
		return s.consumeHeader(raw)
	case stateStreaming:
		return s.consumeFeature(raw)
	case stateTerminated:
		return fmt.Errorf("line %d: stream already terminated", s.lineNo)
	}

	return nil
}

func (s *SequenceValidator) consumeHeader(raw []byte) error {
	if obj, err := jsonio.DecodeObject(raw); err == nil && obj["type"] == "CityJSONFeature" {
		return fmt.Errorf("line %d: %w", s.lineNo, ErrFeatureBeforeHeader)
	}

	v, err := cityjson.FromBytes(raw)
	if err != nil {
		return fmt.Errorf("line %d: header: %w", s.lineNo, err)
	}

	for _, data := range s.extensions {
		if err := v.AddExtensionFromBytes(data); err != nil {
			return fmt.Errorf("line %d: header: loading extension: %w", s.lineNo, err)
		}
	}

	s.header = v

	rpt := v.Validate()
	s.record(rpt)

	s.logger.Info("validated CityJSONSeq header", slog.Int("line", s.lineNo), slog.Bool("valid", rpt.Valid()))

	s.state = stateStreaming

	return nil
}

func (s *SequenceValidator) consumeFeature(raw []byte) error {
	if s.header == nil {
		return fmt.Errorf("line %d: %w", s.lineNo, ErrFeatureBeforeHeader)
	}

	v, err := cityjson.NewFeatureValidator(s.header, raw)
	if err != nil {
		return fmt.Errorf("line %d: feature: %w", s.lineNo, err)
	}

	rpt := v.Validate()
	s.record(rpt)

	s.logger.Info("validated CityJSONFeature", slog.Int("line", s.lineNo), slog.Bool("valid", rpt.Valid()))

	return nil
}

func (s *SequenceValidator) record(rpt *report.Report) {
	s.lines = append(s.lines, LineReport{Line: s.lineNo, Report: rpt})
}

// RunStream drains r line by line via [ConsumeLine] until EOF, then
// terminates the stream and returns the summary (spec §4.6 Terminated).
func (s *SequenceValidator) RunStream(r io.Reader) (Summary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if err := s.ConsumeLine(scanner.Bytes()); err != nil {
			return Summary{}, err
		}
	}

	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("reading CityJSONSeq stream: %w", err)
	}

	return s.Terminate()
}

// Terminate transitions to the Terminated state and computes the summary.
// It is idempotent: calling it more than once returns the same summary.
func (s *SequenceValidator) Terminate() (Summary, error) {
	if s.lineNo == 0 {
		return Summary{}, ErrEmptyStream
	}

	s.state = stateTerminated

	summary := Summary{TotalLines: len(s.lines)}

	for _, lr := range s.lines {
		switch {
		case !lr.Report.Valid():
			summary.ErrorLines = append(summary.ErrorLines, lr.Line)
		case lr.Report.HasWarnings():
			summary.WarningLines = append(summary.WarningLines, lr.Line)
		}
	}

	return summary, nil
}

// LineReports returns every line's recorded report, in stream order.
func (s *SequenceValidator) LineReports() []LineReport {
	return s.lines
}

// HeaderValidator returns the header Validator built from the stream's
// first line, or nil before that line has been consumed.
func (s *SequenceValidator) HeaderValidator() *cityjson.Validator {
	return s.header
}
