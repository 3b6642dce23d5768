package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vegasq/insightq/query"
)

// Validation constants to prevent resource exhaustion on hostile input
const (
	// MaxSentenceLength is the maximum allowed sentence length (64KB)
	MaxSentenceLength = 64 * 1024

	// MaxConditions is the maximum number of conditions in a filter clause
	MaxConditions = 256
)

var (
	// ErrSentenceTooLong is returned when a sentence exceeds MaxSentenceLength
	ErrSentenceTooLong = errors.New("query too long")

	// ErrTooManyConditions is returned when a filter clause has more than MaxConditions conditions
	ErrTooManyConditions = errors.New("too many conditions in query")
)

// ValidateSentence performs cheap input checks before any pattern matching.
// Failures wrap both query.ErrSyntax and the specific sentinel.
func ValidateSentence(sentence string) error {
	if len(sentence) > MaxSentenceLength {
		return fmt.Errorf("%w: %w: %d bytes (max %d)", query.ErrSyntax, ErrSentenceTooLong, len(sentence), MaxSentenceLength)
	}
	// Every condition after the first adds one connective
	if n := strings.Count(sentence, " and ") + strings.Count(sentence, " or "); n >= MaxConditions {
		return fmt.Errorf("%w: %w: %d connectives (max %d)", query.ErrSyntax, ErrTooManyConditions, n, MaxConditions-1)
	}
	return nil
}
