// Package replace performs literal substring replacement on file content
// under a configurable decoding policy.
package replace

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// ErrEmptyPattern is returned when the search string is empty.
var ErrEmptyPattern = errors.New("search string is empty")

// Result is the outcome of applying a replacement to one file's content.
type Result struct {
	// Content is the content to write back. It equals the decoded input when
	// nothing was replaced.
	Content []byte

	// Count is the number of match sites replaced. Matches are found left to
	// right without overlap, the same way bytes.ReplaceAll consumes them.
	Count int

	// Changed reports whether at least one replacement happened.
	Changed bool
}

// Apply replaces every literal occurrence of oldText with newText in content.
//
// The policy decides what happens to bytes that are not valid UTF-8:
// DecodeBytes leaves them alone, DecodeReplace turns each invalid sequence
// into U+FFFD and DecodeIgnore drops it. A file with no match is reported
// unchanged regardless of how decoding altered it.
func Apply(content []byte, oldText, newText string, policy linkupdater.DecodePolicy) (Result, error) {
	if oldText == "" {
		return Result{}, ErrEmptyPattern
	}

	decoded, err := Decode(content, policy)
	if err != nil {
		return Result{}, err
	}

	old := []byte(oldText)
	count := bytes.Count(decoded, old)
	if count == 0 {
		return Result{Content: decoded}, nil
	}

	return Result{
		Content: bytes.ReplaceAll(decoded, old, []byte(newText)),
		Count:   count,
		Changed: true,
	}, nil
}

// Decode converts raw file bytes according to policy.
func Decode(content []byte, policy linkupdater.DecodePolicy) ([]byte, error) {
	switch policy {
	case linkupdater.DecodeBytes, "":
		return content, nil
	case linkupdater.DecodeReplace:
		out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode content: %w", err)
		}
		return out, nil
	case linkupdater.DecodeIgnore:
		// x/text has no drop-only UTF-8 decoder; dropping through U+FFFD
		// would also remove legitimate replacement characters.
		return bytes.ToValidUTF8(content, nil), nil
	default:
		return nil, fmt.Errorf("%w: unknown decode policy %q", linkupdater.ErrInvalidConfig, policy)
	}
}
