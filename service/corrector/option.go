package corrector

import "github.com/viant/fuzzypatch/model/diff"

// Option customises the corrector.
type Option func(s *Service)

// WithFuzzyThreshold sets the minimum similarity accepted as a fuzzy anchor.
func WithFuzzyThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.fuzzyThreshold = threshold
		}
	}
}

// WithSearchFactor bounds the spiral search to factor × target line count attempts.
func WithSearchFactor(factor int) Option {
	return func(s *Service) {
		if factor > 0 {
			s.searchFactor = factor
		}
	}
}

// WithParseOptions passes options to the patch parser, e.g. diff.WithIndent.
func WithParseOptions(options ...diff.Option) Option {
	return func(s *Service) {
		s.parseOptions = append(s.parseOptions, options...)
	}
}

// WithNormalizeIndent rewrites the patch indentation to the unit detected in
// the target before anchoring.
func WithNormalizeIndent(enabled bool) Option {
	return func(s *Service) {
		s.normalizeIndent = enabled
	}
}
