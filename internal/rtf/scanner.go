// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rtf post-processes RTF produced by the external converter,
// scaling oversized pictures and tables to fit a target page width. It
// works on a token stream of control words and groups rather than raw
// text substitution, so hex-encoded picture data cannot be mistaken for
// markup.
package rtf

import "strconv"

// TokenKind classifies a scanned RTF token.
type TokenKind int

const (
	// TokenGroupOpen is an opening brace.
	TokenGroupOpen TokenKind = iota
	// TokenGroupClose is a closing brace.
	TokenGroupClose
	// TokenControl is a control word (\picwgoal9000) or control symbol (\*).
	TokenControl
	// TokenText is a run of document text between markup tokens.
	TokenText
)

// Token is one lexical element of an RTF stream. Start and End are byte
// offsets into the source; for control words they span the backslash,
// the word, and the numeric parameter, but never the delimiter space.
type Token struct {
	Kind     TokenKind
	Word     string
	Param    int
	HasParam bool
	Start    int
	End      int
}

// Scanner walks an RTF stream token by token.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a Scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next token. The second result is false at end of input.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.src) {
		return Token{}, false
	}

	start := s.pos
	switch s.src[s.pos] {
	case '{':
		s.pos++
		return Token{Kind: TokenGroupOpen, Start: start, End: s.pos}, true
	case '}':
		s.pos++
		return Token{Kind: TokenGroupClose, Start: start, End: s.pos}, true
	case '\\':
		return s.scanControl(), true
	default:
		for s.pos < len(s.src) {
			c := s.src[s.pos]
			if c == '{' || c == '}' || c == '\\' {
				break
			}
			s.pos++
		}
		return Token{Kind: TokenText, Start: start, End: s.pos}, true
	}
}

func (s *Scanner) scanControl() Token {
	start := s.pos
	s.pos++ // backslash

	if s.pos >= len(s.src) {
		return Token{Kind: TokenText, Start: start, End: s.pos}
	}

	c := s.src[s.pos]
	if !isLetter(c) {
		// Control symbol. \'hh carries a two-digit hex escape.
		s.pos++
		if c == '\'' {
			for i := 0; i < 2 && s.pos < len(s.src) && isHexDigit(s.src[s.pos]); i++ {
				s.pos++
			}
		}
		return Token{Kind: TokenControl, Word: string(c), Start: start, End: s.pos}
	}

	wordStart := s.pos
	for s.pos < len(s.src) && isLetter(s.src[s.pos]) {
		s.pos++
	}
	word := s.src[wordStart:s.pos]

	hasParam := false
	param := 0
	numStart := s.pos
	if s.pos < len(s.src) && s.src[s.pos] == '-' {
		numStart++
	}
	numEnd := numStart
	for numEnd < len(s.src) && isDigit(s.src[numEnd]) {
		numEnd++
	}
	if numEnd > numStart {
		hasParam = true
		// Parameters are 16-bit in the spec; real files exceed that, so
		// just cap on Atoi failure.
		if n, err := strconv.Atoi(s.src[s.pos:numEnd]); err == nil {
			param = n
		}
		s.pos = numEnd
	}

	end := s.pos

	// A single space after a control word is a delimiter, not text.
	if s.pos < len(s.src) && s.src[s.pos] == ' ' {
		s.pos++
	}

	// \binN is followed by N bytes of raw binary data; skip them so
	// brace bytes inside the blob cannot unbalance the group walk.
	if word == "bin" && hasParam && param > 0 {
		s.pos += param
		if s.pos > len(s.src) {
			s.pos = len(s.src)
		}
	}

	return Token{Kind: TokenControl, Word: word, Param: param, HasParam: hasParam, Start: start, End: end}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
