package idom

// Matcher decides whether an existing node can be reused for a declaration.
type Matcher interface {
	// Match compares the declared kind and key against the identity the
	// candidate was created with.
	Match(candidate Node, kind, existingKind Kind, key, existingKey Key) bool
}

// MatchFunc adapts an ordinary function to the Matcher interface.
type MatchFunc func(candidate Node, kind, existingKind Kind, key, existingKey Key) bool

// Match implements Matcher.
func (f MatchFunc) Match(candidate Node, kind, existingKind Kind, key, existingKey Key) bool {
	return f(candidate, kind, existingKind, key, existingKey)
}

// DefaultMatcher reuses a node when both its kind and its key are equal to
// the declared ones.
var DefaultMatcher Matcher = MatchFunc(defaultMatch)

func defaultMatch(_ Node, kind, existingKind Kind, key, existingKey Key) bool {
	return kind == existingKind && key == existingKey
}

// matches reports whether candidate can be reused for (kind, key) under the
// active frame's matcher.
func (e *Engine) matches(candidate Node, kind Kind, key Key) bool {
	id := candidate.OwnerDocument().Identity(candidate)
	return e.frame.matcher.Match(candidate, kind, id.Kind, key, id.Key)
}

// findMatch looks for a reusable node starting at start. Unkeyed
// declarations only consider start itself; keyed ones scan the following
// siblings.
func (e *Engine) findMatch(start Node, kind Kind, key Key) Node {
	for cur := start; cur != nil; cur = cur.NextSibling() {
		if e.matches(cur, kind, key) {
			return cur
		}
		if !key.IsSet() {
			break
		}
	}
	return nil
}
