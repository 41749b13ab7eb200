package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/artpar/primitives/app"
	"github.com/artpar/primitives/pkg/jsonapi"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// bodyError reports a request body that is not a JSON object.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return "malformed request body: " + e.err.Error() }
func (e *bodyError) Unwrap() error { return e.err }

// mediaTypeError reports a request body of an unaccepted content type.
type mediaTypeError struct {
	contentType string
}

func (e *mediaTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q", e.contentType)
}

// decodeBody decodes a JSON object into the struct dst points to. Members
// are decoded one at a time so each failure is reported as an
// app.FieldError naming its member. Unknown members are ignored.
func decodeBody(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != "application/json" && mt != jsonapi.ContentType) {
			return &mediaTypeError{contentType: ct}
		}
	}

	var members map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&members); err != nil {
		return &bodyError{err: err}
	}
	if members == nil {
		return &bodyError{err: errors.New("expected a JSON object")}
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	var errs []error
	for i := range t.NumField() {
		name := memberName(t.Field(i))
		raw, ok := members[name]
		if name == "" || !ok {
			continue
		}
		if err := json.Unmarshal(raw, v.Field(i).Addr().Interface()); err != nil {
			errs = append(errs, &app.FieldError{Field: name, Err: err})
		}
	}
	return errors.Join(errs...)
}

func memberName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}
