package chain

import "fmt"

// ParseError reports a structurally invalid token sequence: the grammar is
// a strict Object (Relation Object)* alternation with an optional trailing
// native tag.
type ParseError struct {
	Pos      int
	Expected string
	Found    string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Parse lexes and parses one chain line.
func Parse(input string) (*Chain, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}
	return ParseTokens(input, tokens)
}

// ParseTokens builds a Chain from a token sequence, enforcing alternation
// and the model invariants.
func ParseTokens(input string, tokens []Token) (*Chain, error) {
	c := &Chain{Raw: input}

	wantObject := true
	for i, tok := range tokens {
		switch tok.Kind {
		case TokenObject:
			if !wantObject {
				return nil, ParseError{Pos: tok.Pos, Expected: "relation", Found: describeToken(tok)}
			}
			c.Nodes = append(c.Nodes, Node{ClassName: tok.ClassName, Address: tok.Address, Released: tok.Released})
			wantObject = false

		case TokenRelation:
			if wantObject {
				return nil, ParseError{Pos: tok.Pos, Expected: "object", Found: describeToken(tok)}
			}
			c.Edges = append(c.Edges, tok.Name)
			wantObject = true

		case TokenNativeTag:
			if i != len(tokens)-1 {
				return nil, ParseError{Pos: tok.Pos, Expected: "end of chain after native tag", Found: describeToken(tokens[i+1])}
			}
			if wantObject {
				// Covers both a tag-only input and a tag following a
				// dangling relation.
				return nil, ParseError{Pos: tok.Pos, Expected: "object", Found: describeToken(tok)}
			}
			c.NativeTag = tok.Name
		}
	}

	if len(c.Nodes) == 0 {
		return nil, EmptyChainError{}
	}
	if wantObject {
		// The loop ended right after a relation.
		last := tokens[len(tokens)-1]
		return nil, ParseError{Pos: last.Pos + len(last.Text), Expected: "object", Found: "end of chain"}
	}

	if err := checkInvariants(c); err != nil {
		return nil, err
	}
	return c, nil
}

func describeToken(tok Token) string {
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
}

// checkInvariants verifies the model constraints that the alternation
// itself cannot express: the emitter never repeats an object inside one
// path, so addresses are unique per chain.
func checkInvariants(c *Chain) error {
	if len(c.Edges) != len(c.Nodes)-1 {
		return ParseError{
			Expected: fmt.Sprintf("%d relations for %d objects", len(c.Nodes)-1, len(c.Nodes)),
			Found:    fmt.Sprintf("%d", len(c.Edges)),
		}
	}

	seen := make(map[string]int, len(c.Nodes))
	for i, n := range c.Nodes {
		if j, dup := seen[n.Address]; dup {
			return ParseError{
				Expected: "unique object addresses",
				Found:    fmt.Sprintf("address %q on both node %d and node %d", n.Address, j, i),
			}
		}
		seen[n.Address] = i
	}
	return nil
}
