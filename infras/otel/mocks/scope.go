package mocks

import (
	"maps"
	"slices"
	"sync"
)

// SpanRecord is what the code under test reported on one scope.
type SpanRecord struct {
	ScopeName  string
	Name       string
	Attributes map[string]any
	Events     []string
	Errors     []error
	Ended      bool
}

func (s SpanRecord) clone() SpanRecord {
	s.Attributes = maps.Clone(s.Attributes)
	s.Events = slices.Clone(s.Events)
	s.Errors = slices.Clone(s.Errors)

	return s
}

// scope writes into its record under the recorder's lock so a test can read spans while
// requests are still in flight.
type scope struct {
	mu     *sync.Mutex
	record *SpanRecord
}

func (s *scope) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Ended = true
}

func (s *scope) TraceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Errors = append(s.record.Errors, err)
}

func (s *scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scope) AddEvent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Events = append(s.record.Events, name)
}

func (s *scope) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Attributes[key] = value
}

func (s *scope) SetAttributes(attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.record.Attributes, attributes)
}
