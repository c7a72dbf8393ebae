// Package delegation implements NIP-26 delegated event signing: the conditions grammar, the
// signed grant, the delegation tag and the per-event verification outcome.
package delegation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	kindPrefix          = "kind="
	createdAfterPrefix  = "created_at>"
	createdBeforePrefix = "created_at<"
	separator           = "&"
)

var (
	ErrMalformedNumber  = errors.New("malformed number in delegation conditions")
	ErrUnknownCondition = errors.New("unknown delegation condition")
)

// MalformedNumberError carries the part of the conditions string that failed to parse.
type MalformedNumberError struct {
	Part string
	Err  error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed number in delegation condition %q: %v", e.Part, e.Err)
}

func (e *MalformedNumberError) Unwrap() error {
	return e.Err
}

func (e *MalformedNumberError) Is(target error) bool {
	return target == ErrMalformedNumber
}

// Conditions restrict what a delegation grant covers. The zero value has no restriction.
// Values are built with the With* methods, which return modified copies.
type Conditions struct {
	kind          uint64
	hasKind       bool
	createdAfter  int64
	hasAfter      bool
	createdBefore int64
	hasBefore     bool
}

func (c Conditions) WithKind(kind uint64) Conditions {
	c.kind, c.hasKind = kind, true
	return c
}

func (c Conditions) WithCreatedAfter(unix int64) Conditions {
	c.createdAfter, c.hasAfter = unix, true
	return c
}

func (c Conditions) WithCreatedBefore(unix int64) Conditions {
	c.createdBefore, c.hasBefore = unix, true
	return c
}

func (c Conditions) Kind() (uint64, bool) {
	return c.kind, c.hasKind
}

func (c Conditions) CreatedAfter() (int64, bool) {
	return c.createdAfter, c.hasAfter
}

func (c Conditions) CreatedBefore() (int64, bool) {
	return c.createdBefore, c.hasBefore
}

// String renders the canonical form: kind, then created_at>, then created_at<, joined by '&'.
// Absent fields are omitted and no conditions render as "".
func (c Conditions) String() string {
	parts := make([]string, 0, 3)
	if c.hasKind {
		parts = append(parts, kindPrefix+strconv.FormatUint(c.kind, 10))
	}
	if c.hasAfter {
		parts = append(parts, createdAfterPrefix+strconv.FormatInt(c.createdAfter, 10))
	}
	if c.hasBefore {
		parts = append(parts, createdBeforePrefix+strconv.FormatInt(c.createdBefore, 10))
	}
	return strings.Join(parts, separator)
}

// MarshalJSON encodes the conditions as their canonical string.
func (c Conditions) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Conditions) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := DefaultParser.Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Allows reports whether an event of the given kind created at the given time is covered.
// Both time bounds are exclusive.
func (c Conditions) Allows(kind uint64, createdAt int64) bool {
	if c.hasKind && c.kind != kind {
		return false
	}
	if c.hasAfter && createdAt <= c.createdAfter {
		return false
	}
	if c.hasBefore && createdAt >= c.createdBefore {
		return false
	}
	return true
}

// unsigned drops one leading '+', which strconv.ParseUint rejects and ParseInt accepts.
func unsigned(s string) string {
	return strings.TrimPrefix(s, "+")
}

// Parser parses conditions strings.
type Parser struct {
	// IgnoreUnknown skips parts that are not one of the three known conditions. When false such
	// a part fails with ErrUnknownCondition.
	IgnoreUnknown bool
}

// DefaultParser skips unknown parts, which is how existing grants in the wild are read.
var DefaultParser = Parser{IgnoreUnknown: true}

// ParseConditions parses s with DefaultParser.
func ParseConditions(s string) (Conditions, error) {
	return DefaultParser.Parse(s)
}

// Parse splits s on '&' and reads every known part. A later occurrence of a condition
// overrides an earlier one. Empty parts are skipped.
func (p Parser) Parse(s string) (c Conditions, err error) {
	for _, part := range strings.Split(s, separator) {
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, kindPrefix):
			k, err := strconv.ParseUint(unsigned(strings.TrimPrefix(part, kindPrefix)), 10, 64)
			if err != nil {
				return Conditions{}, &MalformedNumberError{Part: part, Err: err}
			}
			c = c.WithKind(k)
		case strings.HasPrefix(part, createdAfterPrefix):
			t, err := strconv.ParseInt(strings.TrimPrefix(part, createdAfterPrefix), 10, 64)
			if err != nil {
				return Conditions{}, &MalformedNumberError{Part: part, Err: err}
			}
			c = c.WithCreatedAfter(t)
		case strings.HasPrefix(part, createdBeforePrefix):
			t, err := strconv.ParseInt(strings.TrimPrefix(part, createdBeforePrefix), 10, 64)
			if err != nil {
				return Conditions{}, &MalformedNumberError{Part: part, Err: err}
			}
			c = c.WithCreatedBefore(t)
		default:
			if !p.IgnoreUnknown {
				return Conditions{}, errors.Wrapf(ErrUnknownCondition, "%q", part)
			}
		}
	}
	return c, nil
}
