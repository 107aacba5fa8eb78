package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MsgRequired  = "This field is required."
	MsgNull      = "This field may not be null."
	MsgBlank     = "This field may not be blank."
	MsgNotString = "Not a valid string."
	msgMaxLen    = "Ensure this field has no more than %d characters."

	nonFieldErrors = "non_field_errors"
)

const (
	MaxProductDescription = 255
	MaxClientID           = 64
	MaxClientName         = 100
	MaxEmail              = 254
)

// ErrParse is returned by Decode when the body is not valid JSON.
var ErrParse = errors.New("JSON parse error")

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// String is a JSON string field that remembers whether it was sent and
// whether it was null. Numbers are accepted and kept as their literal text.
type String struct {
	Present bool
	Null    bool
	Value   string
	invalid bool
}

func (s *String) UnmarshalJSON(b []byte) error {
	s.Present = true
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		s.Null = true
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		s.Value = v
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		s.Value = n.String()
		return nil
	}
	s.invalid = true
	return nil
}

func (s String) MarshalJSON() ([]byte, error) {
	if !s.Present || s.Null {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// check trims the value and records the first failing rule for field.
func (s *String) check(fe FieldErrors, field string, maxLen int) {
	switch {
	case !s.Present:
		fe.add(field, MsgRequired)
	case s.Null:
		fe.add(field, MsgNull)
	case s.invalid:
		fe.add(field, MsgNotString)
	default:
		s.Value = strings.TrimSpace(s.Value)
		if s.Value == "" {
			fe.add(field, MsgBlank)
			return
		}
		if maxLen > 0 && utf8.RuneCountInString(s.Value) > maxLen {
			fe.add(field, fmt.Sprintf(msgMaxLen, maxLen))
		}
	}
}

type SentimentRequest struct {
	Text String `json:"text"`
}

func (r *SentimentRequest) Validate() FieldErrors {
	fe := FieldErrors{}
	r.Text.check(fe, "text", 0)
	if len(fe) == 0 {
		return nil
	}
	return fe
}

type CartRecoveryRequest struct {
	ProductDescription String `json:"descricao_produto"`
	ClientID           String `json:"cliente_id"`
	ClientName         String `json:"nome_cliente"`
	Email              String `json:"email"`
}

func (r *CartRecoveryRequest) Validate() FieldErrors {
	fe := FieldErrors{}
	r.ProductDescription.check(fe, "descricao_produto", MaxProductDescription)
	r.ClientID.check(fe, "cliente_id", MaxClientID)
	r.ClientName.check(fe, "nome_cliente", MaxClientName)
	r.Email.check(fe, "email", MaxEmail)
	if len(fe) == 0 {
		return nil
	}
	return fe
}

var jsonKinds = map[string]string{
	"array":  "list",
	"string": "str",
	"number": "float",
	"bool":   "bool",
}

// bodyKind names a top-level JSON value. Numbers without a fraction or
// exponent are integers.
func bodyKind(value string, body []byte) string {
	if value == "number" && !bytes.ContainsAny(body, ".eE") {
		return "int"
	}
	return jsonKinds[value]
}

// Decode parses body into dst. An empty body decodes as an empty object.
// A well-formed body that is not a JSON object is reported as a field error.
func Decode(body []byte, dst any) (FieldErrors, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "" {
		return FieldErrors{nonFieldErrors: {
			fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", bodyKind(typeErr.Value, body)),
		}}, nil
	}
	return nil, fmt.Errorf("%w - %s", ErrParse, err.Error())
}

type SentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

type CartRecoveryResponse struct {
	CopyText  string `json:"copy_text"`
	ClientID  string `json:"cliente_id"`
	ProductID uint   `json:"produto_id"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

// UpstreamErrorResponse is sent when the rows were stored but the LLM call
// failed.
type UpstreamErrorResponse struct {
	Detail    string `json:"detail"`
	Error     string `json:"error"`
	ClientID  string `json:"cliente_id"`
	ProductID uint   `json:"produto_id"`
}
