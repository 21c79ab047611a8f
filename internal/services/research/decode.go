package research

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports that a reasoning-service response did not contain a
// usable structured object. It is always recovered locally by the stage
// that observed it.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode response: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExtractObject returns the first balanced {...} span in text. The scan is
// string-literal aware, so braces inside JSON strings do not unbalance it;
// code fences and surrounding prose fall away for free.
func ExtractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &DecodeError{Reason: "no object found"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", &DecodeError{Reason: "unbalanced object"}
}

// DecodeInto extracts the first balanced object from text and decodes it
// into dest. Callers validate required fields themselves and substitute
// their stage default on any failure.
func DecodeInto(text string, dest interface{}) error {
	span, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), dest); err != nil {
		return &DecodeError{Reason: "invalid json", Err: err}
	}
	return nil
}
