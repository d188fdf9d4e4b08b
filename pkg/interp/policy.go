package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/readpat/pkg/stream"
)

// Execution errors.
var (
	ErrEndOfStream  = errors.New("unexpected end of text")
	ErrInfiniteLoop = errors.New("until-EOF block did not advance the stream")
	ErrUnknownNode  = errors.New("unknown operation node")
)

// Policy errors.
var (
	ErrUnknownKind   = errors.New("unknown error kind")
	ErrUnknownAction = errors.New("unknown error action")
)

// ErrorKind classifies execution errors for policy lookup.
type ErrorKind int

const (
	// KindOther is any error not covered by a more specific kind.
	KindOther ErrorKind = iota

	// KindEndOfStream is ErrEndOfStream.
	KindEndOfStream

	// KindInfiniteLoop is ErrInfiniteLoop.
	KindInfiniteLoop

	// KindClosed is stream.ErrClosed.
	KindClosed
)

// kindNames maps kinds to their configuration names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[ErrorKind]string{
	KindOther:        "other",
	KindEndOfStream:  "end-of-stream",
	KindInfiniteLoop: "infinite-loop",
	KindClosed:       "closed",
}

// String returns the configuration name of the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseErrorKind converts a configuration name to an ErrorKind.
func ParseErrorKind(name string) (ErrorKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return KindOther, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Classify returns the kind of err.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrEndOfStream):
		return KindEndOfStream
	case errors.Is(err, ErrInfiniteLoop):
		return KindInfiniteLoop
	case errors.Is(err, stream.ErrClosed):
		return KindClosed
	default:
		return KindOther
	}
}

// Action says what to do with an execution error.
type Action int

const (
	// Propagate returns the error unchanged.
	Propagate Action = iota

	// Suppress stops reading and returns the output produced so far without
	// an error.
	Suppress

	// WrapWithDetail returns a DetailedError locating the failure in the
	// pattern and the text.
	WrapWithDetail
)

//nolint:gochecknoglobals // Read-only lookup table.
var actionNames = map[Action]string{
	Propagate:      "propagate",
	Suppress:       "suppress",
	WrapWithDetail: "wrap",
}

// String returns the configuration name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction converts a configuration name to an Action.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for action, actionName := range actionNames {
		if actionName == name {
			return action, nil
		}
	}
	return Propagate, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Policy maps error kinds to actions. Kinds missing from the map propagate.
type Policy map[ErrorKind]Action

// DefaultPolicy wraps end-of-stream errors with detail and propagates the
// rest.
func DefaultPolicy() Policy {
	return Policy{KindEndOfStream: WrapWithDetail}
}

// Resolve returns the action for kind.
func (p Policy) Resolve(kind ErrorKind) Action {
	if action, ok := p[kind]; ok {
		return action
	}
	return Propagate
}

// ParsePolicy builds a policy from configuration names, starting from
// DefaultPolicy.
func ParsePolicy(entries map[string]string) (Policy, error) {
	policy := DefaultPolicy()
	for kindName, actionName := range entries {
		kind, err := ParseErrorKind(kindName)
		if err != nil {
			return nil, err
		}
		action, err := ParseAction(actionName)
		if err != nil {
			return nil, err
		}
		policy[kind] = action
	}
	return policy, nil
}
