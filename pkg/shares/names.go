package shares

import (
	"fmt"
	"strings"
)

// Role tells parents and children apart in reports.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Placeholder produces the label of an unnamed participant. position is
// 1-based within the role.
type Placeholder func(role Role, position int) string

// DefaultPlaceholder labels participants "Parent 1", "Child 2" and so on.
func DefaultPlaceholder(role Role, position int) string {
	if role == RoleChild {
		return fmt.Sprintf("Child %d", position)
	}
	return fmt.Sprintf("Parent %d", position)
}

// ResizeNames returns a copy of prev truncated or padded with empty
// strings to exactly n entries. prev is never modified.
func ResizeNames(prev []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	resized := make([]string, n)
	copy(resized, prev)
	return resized
}

// WithDefaults returns a copy of in with trimmed names, ChildNames sized
// to NumChildren and every blank name replaced by its placeholder.
func (in Input) WithDefaults(placeholder Placeholder) Input {
	if placeholder == nil {
		placeholder = DefaultPlaceholder
	}

	out := in
	out.Parent1Name = nameOrPlaceholder(in.Parent1Name, placeholder(RoleParent, 1))
	out.Parent2Name = nameOrPlaceholder(in.Parent2Name, placeholder(RoleParent, 2))

	count := in.NumChildren
	if count < 0 {
		count = 0
	}
	out.ChildNames = ResizeNames(in.ChildNames, count)
	for i, name := range out.ChildNames {
		out.ChildNames[i] = nameOrPlaceholder(name, placeholder(RoleChild, i+1))
	}
	return out
}

func nameOrPlaceholder(name, placeholder string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return placeholder
}
