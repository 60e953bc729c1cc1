// Package vector parses bracketed integer literals such as "[3, 3, 2]" and
// "[[7,5,3],[3,2,2]]" into resource vectors and matrices.
package vector

import (
	"fmt"
	"strconv"

	"github.com/viant/ossim/model/resource"
	"github.com/viant/parsly"
)

// Parse parses a vector literal. "[]" yields an empty vector.
func Parse(text string) (resource.Vector, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	ret, err := parseVector(cursor)
	if err != nil {
		return nil, err
	}
	return ret, expectEnd(cursor)
}

// ParseMatrix parses a literal of vector literals.
func ParseMatrix(text string) (resource.Matrix, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	if matched := cursor.MatchAfterOptional(whitespaceToken, openBracketToken); matched.Code != openBracketCode {
		return nil, cursor.NewError(openBracketToken)
	}
	ret := resource.Matrix{}
	if matched := cursor.MatchAfterOptional(whitespaceToken, closeBracketToken); matched.Code == closeBracketCode {
		return ret, expectEnd(cursor)
	}
	for {
		row, err := parseVector(cursor)
		if err != nil {
			return nil, err
		}
		ret = append(ret, row)
		matched := cursor.MatchAfterOptional(whitespaceToken, commaToken, closeBracketToken)
		switch matched.Code {
		case commaCode:
		case closeBracketCode:
			return ret, expectEnd(cursor)
		default:
			return nil, cursor.NewError(commaToken, closeBracketToken)
		}
	}
}

func parseVector(cursor *parsly.Cursor) (resource.Vector, error) {
	if matched := cursor.MatchAfterOptional(whitespaceToken, openBracketToken); matched.Code != openBracketCode {
		return nil, cursor.NewError(openBracketToken)
	}
	ret := resource.Vector{}
	if matched := cursor.MatchAfterOptional(whitespaceToken, closeBracketToken); matched.Code == closeBracketCode {
		return ret, nil
	}
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, integerToken)
		if matched.Code != integerCode {
			return nil, cursor.NewError(integerToken)
		}
		value, err := strconv.Atoi(matched.Text(cursor))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", matched.Text(cursor), err)
		}
		ret = append(ret, value)
		matched = cursor.MatchAfterOptional(whitespaceToken, commaToken, closeBracketToken)
		switch matched.Code {
		case commaCode:
		case closeBracketCode:
			return ret, nil
		default:
			return nil, cursor.NewError(commaToken, closeBracketToken)
		}
	}
}

func expectEnd(cursor *parsly.Cursor) error {
	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return fmt.Errorf("unexpected %q at position %d", cursor.Input[cursor.Pos:], cursor.Pos)
	}
	return nil
}
