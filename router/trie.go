package router

import (
	"fmt"
	"strings"
)

// node is one segment position in a method trie. Literal children are keyed
// by their segment value; at most one parameter child and one wildcard child
// may exist per position.
type node struct {
	children map[string]*node
	param    *node
	wildcard *node

	// name is the parameter or wildcard name, empty on literal nodes.
	name string

	// intOnly restricts a parameter node to digit segments ({name:int}).
	intOnly bool

	route   *Route
	handler Handler
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// parseParam splits a {name} or {name:type} segment into its name and
// constraint. Only the int and str constraints are recognized.
func parseParam(segment string) (name string, intOnly bool, err error) {
	inner := segment[1 : len(segment)-1]
	name, typ, typed := strings.Cut(inner, ":")
	if name == "" {
		return "", false, fmt.Errorf("router: empty parameter name in segment %q", segment)
	}
	if !typed {
		return name, false, nil
	}
	switch typ {
	case "int":
		return name, true, nil
	case "str":
		return name, false, nil
	}
	return "", false, fmt.Errorf("router: unsupported parameter type %q in segment %q", typ, segment)
}

func isParam(segment string) bool {
	return len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}' && segment[1] != '*'
}

func isWildcard(segment string) bool {
	return len(segment) > 3 && strings.HasPrefix(segment, "{*") && segment[len(segment)-1] == '}'
}

// insert adds the route at the given path segments, creating trie nodes as
// needed. The handler is the route handler with the router's middleware
// chain already applied.
func (n *node) insert(segments []string, route *Route, handler Handler) error {
	current := n

	for i, segment := range segments {
		switch {
		case isWildcard(segment):
			if i != len(segments)-1 {
				return &ConflictError{Route: route, Reason: "wildcard segment must be the last segment"}
			}
			name := segment[2 : len(segment)-1]
			if current.wildcard != nil {
				if current.wildcard.name != name {
					return &ConflictError{Route: route, Reason: fmt.Sprintf("wildcard name %q conflicts with existing %q", name, current.wildcard.name)}
				}
			} else {
				current.wildcard = newNode()
				current.wildcard.name = name
			}
			current = current.wildcard

		case isParam(segment):
			name, intOnly, err := parseParam(segment)
			if err != nil {
				return err
			}
			if current.param != nil {
				if current.param.name != name || current.param.intOnly != intOnly {
					return &ConflictError{Route: route, Reason: fmt.Sprintf("parameter segment %q conflicts with existing {%s}", segment, current.param.name)}
				}
			} else {
				current.param = newNode()
				current.param.name = name
				current.param.intOnly = intOnly
			}
			current = current.param

		default:
			child, ok := current.children[segment]
			if !ok {
				child = newNode()
				current.children[segment] = child
			}
			current = child
		}
	}

	if current.route != nil {
		return &ConflictError{Route: route, Reason: "path already registered"}
	}

	current.route = route
	current.handler = handler
	return nil
}

// match walks the trie for the given path segments. Literal children are
// tried first, then the parameter child, then the wildcard; a failed deeper
// match backtracks to the next alternative. Captured parameters are written
// to params only along the successful path.
func (n *node) match(segments []string, params Params) *node {
	if len(segments) == 0 {
		if n.route != nil {
			return n
		}
		return nil
	}

	segment, rest := segments[0], segments[1:]

	if child, ok := n.children[segment]; ok {
		if m := child.match(rest, params); m != nil {
			return m
		}
	}

	if n.param != nil && segment != "" && (!n.param.intOnly || isDigits(segment)) {
		if m := n.param.match(rest, params); m != nil {
			params[n.param.name] = segment
			return m
		}
	}

	if n.wildcard != nil && n.wildcard.route != nil {
		params[n.wildcard.name] = strings.Join(segments, "/")
		return n.wildcard
	}

	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
