package parse

import (
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

// parseDelimitedList implements the `list[L, item, R]` helper from spec.md
// §4.D: left delim, then comma-separated items until one parseItem call
// returns false, then right delim. A missing right delim recovers by
// skipping to the next instance of R, '}' or ';', then trying once more to
// take R.
func parseDelimitedList[T any](s *State, left, right token.Kind, parseItem func() (T, bool, error)) ([]T, source.Range, error) {
	openTok, _ := s.TakeKind(left)
	var items []T

	for s.Peek().Kind != right && s.Peek().Kind != token.None {
		item, got, err := parseItem()
		if err != nil {
			return items, openTok.Range, err
		}
		if !got {
			break
		}
		items = append(items, item)
		if _, ok := s.TakeKind(token.Comma); !ok {
			break
		}
	}

	closeTok, ok := s.TakeKind(right)
	rng := openTok.Range
	if ok {
		rng = rng.Join(closeTok.Range)
		return items, rng, nil
	}

	s.Report(diag.Error, s.ErrorRange(), "expected '%s'", right)
	s.Skip(func(t token.Token) bool { return t.Kind != right && t.Kind != token.RBrace && t.Kind != token.Semi })
	if end, ok := s.TakeKind(right); ok {
		rng = rng.Join(end.Range)
	}
	return items, rng, nil
}
