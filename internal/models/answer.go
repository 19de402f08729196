package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type AnswerKind uint8

const (
	AnswerAbsent AnswerKind = iota
	AnswerString
	AnswerNumber
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerString:
		return "string"
	case AnswerNumber:
		return "number"
	default:
		return "absent"
	}
}

// AnswerValue is the raw value a participant gave for one question.
// The zero value is Absent.
type AnswerValue struct {
	kind AnswerKind
	text string
	num  float64
}

func StringAnswer(s string) AnswerValue {
	return AnswerValue{kind: AnswerString, text: s}
}

func NumberAnswer(n float64) AnswerValue {
	return AnswerValue{kind: AnswerNumber, num: n}
}

func AbsentAnswer() AnswerValue {
	return AnswerValue{}
}

func (v AnswerValue) Kind() AnswerKind { return v.kind }

func (v AnswerValue) IsAbsent() bool { return v.kind == AnswerAbsent }

// Text returns the string payload and whether the value is a string.
func (v AnswerValue) Text() (string, bool) {
	return v.text, v.kind == AnswerString
}

// Number returns the numeric payload and whether the value is a number.
func (v AnswerValue) Number() (float64, bool) {
	return v.num, v.kind == AnswerNumber
}

// String renders the raw value: strings as-is, numbers in their shortest
// decimal form, absent values as the empty string.
func (v AnswerValue) String() string {
	switch v.kind {
	case AnswerString:
		return v.text
	case AnswerNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerString:
		return json.Marshal(v.text)
	case AnswerNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON maps null to Absent, strings and numbers to their kinds and
// any other JSON value (bool, array, object) to a String holding its compact text.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty answer value")
	}

	switch trimmed[0] {
	case 'n':
		*v = AbsentAnswer()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid string answer: %w", err)
		}
		*v = StringAnswer(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("invalid numeric answer: %w", err)
		}
		*v = NumberAnswer(n)
		return nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return fmt.Errorf("invalid answer value: %w", err)
		}
		*v = StringAnswer(buf.String())
		return nil
	}
}

// Answers maps question-index strings ("0", "1", ...) to answer values.
type Answers map[string]AnswerValue

// Value stores answers as a JSON document.
func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Answers) Scan(src interface{}) error {
	var data []byte
	switch s := src.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into Answers", src)
	}

	parsed := Answers{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("failed to decode answers: %w", err)
		}
	}
	*a = parsed
	return nil
}

func (Answers) GormDataType() string {
	return "jsonb"
}
