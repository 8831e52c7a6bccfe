package index

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultSeparator    = "\n\n"
)

// Splitter cuts text on a separator and merges the pieces back into chunks
// of at most chunkSize characters, carrying up to overlap characters of the
// previous chunk into the next one. A single piece longer than chunkSize is
// kept whole.
type Splitter struct {
	chunkSize int
	overlap   int
	separator string
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) SplitterOption {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets how many trailing characters consecutive chunks share.
func WithOverlap(overlap int) SplitterOption {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparator sets the string text is first split on.
func WithSeparator(sep string) SplitterOption {
	return func(s *Splitter) {
		s.separator = sep
	}
}

func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// Split returns the chunks of text in order. Blank text yields no chunks.
func (s *Splitter) Split(text string) []string {
	var pieces []string
	if s.separator == "" {
		pieces = []string{text}
	} else {
		pieces = strings.Split(text, s.separator)
	}
	kept := pieces[:0]
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return s.merge(kept)
}

func (s *Splitter) merge(pieces []string) []string {
	sepLen := utf8.RuneCountInString(s.separator)
	var (
		chunks  []string
		current []string
		total   int
	)
	joinedLen := func(n int) int {
		if len(current) > 0 {
			return n + sepLen
		}
		return n
	}
	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+joinedLen(n) > s.chunkSize && len(current) > 0 {
			chunks = s.appendChunk(chunks, current)
			for total > s.overlap || (total > 0 && total+joinedLen(n) > s.chunkSize) {
				drop := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		total += joinedLen(n)
		current = append(current, piece)
	}
	return s.appendChunk(chunks, current)
}

func (s *Splitter) appendChunk(chunks, current []string) []string {
	chunk := strings.TrimSpace(strings.Join(current, s.separator))
	if chunk == "" {
		return chunks
	}
	return append(chunks, chunk)
}
