package vector

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode = iota
	openBracketCode
	closeBracketCode
	commaCode
	integerCode
)

var (
	whitespaceToken   = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	openBracketToken  = parsly.NewToken(openBracketCode, "[", matcher.NewByte('['))
	closeBracketToken = parsly.NewToken(closeBracketCode, "]", matcher.NewByte(']'))
	commaToken        = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	integerToken      = parsly.NewToken(integerCode, "Integer", &integerMatcher{})
)

// integerMatcher matches an optionally signed run of decimal digits.
type integerMatcher struct{}

func (m *integerMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	matched := 0
	if input[pos] == '-' || input[pos] == '+' {
		matched++
	}
	digits := 0
	for i := pos + matched; i < size && input[i] >= '0' && input[i] <= '9'; i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	return matched + digits
}
