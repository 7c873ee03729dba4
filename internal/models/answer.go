package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnswerValue accepts a submitted answer as a JSON string, boolean or number
// and keeps its textual form.
type AnswerValue string

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AnswerValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = AnswerValue(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, boolean or number: %w", err)
		}
		*a = AnswerValue(n.String())
	}
	return nil
}

func (a AnswerValue) String() string {
	return string(a)
}
