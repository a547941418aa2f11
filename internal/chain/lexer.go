package chain

import (
	"fmt"
	"regexp"
	"strings"
)

type TokenKind int

const (
	TokenObject TokenKind = iota
	TokenRelation
	TokenNativeTag
)

func (k TokenKind) String() string {
	switch k {
	case TokenObject:
		return "object"
	case TokenRelation:
		return "relation"
	case TokenNativeTag:
		return "native tag"
	default:
		return "unknown"
	}
}

// Token is one dot-delimited segment of a chain string. Pos is the byte
// offset of the segment in the (trimmed) input, so errors can point at it.
type Token struct {
	Kind TokenKind
	Pos  int
	Text string

	// TokenObject fields
	ClassName string
	Address   string
	Released  bool

	// TokenRelation / TokenNativeTag payload
	Name string
}

var (
	// .__cppinst = WBP_ShopItemTip_C
	nativeSuffixPattern = regexp.MustCompile(`\.__cppinst\s*=\s*([^.\s]+)\s*$`)

	// __cppinst = WBP_ShopItemTip_C  (bare segment form, caught mid-chain)
	nativeSegmentPattern = regexp.MustCompile(`^__cppinst\s*=\s*([^.\s]+)$`)
)

// LexError reports a malformed segment with its byte offset in the input.
type LexError struct {
	Pos     int
	Segment string
	Reason  string
}

func (e LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d near %q: %s", e.Pos, e.Segment, e.Reason)
}

// EmptyChainError is returned for empty or whitespace-only input.
type EmptyChainError struct{}

func (EmptyChainError) Error() string {
	return "empty chain: input contains no segments"
}

// Lex splits a chain string into tokens. The native-tag suffix is detected
// once, anchored at the end, and stripped before the rest is split on '.';
// that is what keeps the spaces around '=' from producing bogus segments.
func Lex(input string) ([]Token, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, EmptyChainError{}
	}

	var suffix *Token
	if loc := nativeSuffixPattern.FindStringSubmatchIndex(s); loc != nil {
		suffix = &Token{
			Kind: TokenNativeTag,
			Pos:  loc[0] + 1, // skip the leading '.'
			Text: strings.TrimSpace(s[loc[0]+1 : loc[1]]),
			Name: s[loc[2]:loc[3]],
		}
		s = s[:loc[0]]
		if s == "" {
			// The whole input was a native tag. Emit it alone and let the
			// parser report the missing object.
			return []Token{*suffix}, nil
		}
	}

	var tokens []Token
	pos := 0
	for _, seg := range strings.Split(s, ".") {
		tok, err := lexSegment(seg, pos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		pos += len(seg) + 1
	}

	if suffix != nil {
		tokens = append(tokens, *suffix)
	}
	return tokens, nil
}

func lexSegment(seg string, pos int) (Token, error) {
	if seg == "" {
		return Token{}, LexError{Pos: pos, Segment: seg, Reason: "empty segment between dots"}
	}

	if m := nativeSegmentPattern.FindStringSubmatch(seg); m != nil {
		return Token{Kind: TokenNativeTag, Pos: pos, Text: seg, Name: m[1]}, nil
	}

	// Anything with a ':' claims to be an object and must lex as one.
	if strings.ContainsRune(seg, ':') {
		return lexObject(seg, pos)
	}

	return Token{Kind: TokenRelation, Pos: pos, Text: seg, Name: seg}, nil
}

// lexObject parses ClassName:Address[true|false]. The address is an opaque
// identifier-safe token: usually hex, but never interpreted numerically.
func lexObject(seg string, pos int) (Token, error) {
	colon := strings.IndexByte(seg, ':')
	className := seg[:colon]
	rest := seg[colon+1:]

	if className == "" {
		return Token{}, LexError{Pos: pos, Segment: seg, Reason: "object segment is missing a class name before ':'"}
	}

	if !strings.HasSuffix(rest, "]") {
		return Token{}, LexError{Pos: pos, Segment: seg, Reason: "object segment must end with a [true]/[false] release flag"}
	}
	bracket := strings.LastIndexByte(rest, '[')
	if bracket < 0 {
		return Token{}, LexError{Pos: pos, Segment: seg, Reason: "object segment must end with a [true]/[false] release flag"}
	}

	address := rest[:bracket]
	flag := rest[bracket+1 : len(rest)-1]

	if address == "" {
		return Token{}, LexError{Pos: pos, Segment: seg, Reason: "object segment is missing an address between ':' and '['"}
	}
	if flag != "true" && flag != "false" {
		return Token{}, LexError{
			Pos:     pos + colon + 1 + bracket,
			Segment: seg,
			Reason:  fmt.Sprintf("release flag must be [true] or [false], got %q", "["+flag+"]"),
		}
	}

	return Token{
		Kind:      TokenObject,
		Pos:       pos,
		Text:      seg,
		ClassName: className,
		Address:   address,
		Released:  flag == "true",
	}, nil
}
