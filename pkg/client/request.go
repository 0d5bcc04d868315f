package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyJSON
	bodyRaw
)

// Body is a request payload. Build one with NoBody, JSONBody or RawBody.
type Body struct {
	kind  bodyKind
	value any
	raw   []byte
}

// NoBody sends an empty request body.
func NoBody() Body {
	return Body{}
}

// JSONBody marshals v as the request body.
func JSONBody(v any) Body {
	return Body{kind: bodyJSON, value: v}
}

// RawBody sends b unchanged.
func RawBody(b []byte) Body {
	return Body{kind: bodyRaw, raw: b}
}

func (b Body) reader() (io.Reader, error) {
	switch b.kind {
	case bodyJSON:
		data, err := json.Marshal(b.value)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		return bytes.NewReader(data), nil
	case bodyRaw:
		return bytes.NewReader(b.raw), nil
	default:
		return nil, nil
	}
}

// RequestConfig describes a single API call. The zero value is a GET with
// no body and no extra headers.
type RequestConfig struct {
	Method  string
	Body    Body
	Headers http.Header
}

func (rc RequestConfig) method() string {
	if rc.Method == "" {
		return http.MethodGet
	}
	return rc.Method
}

// bearer returns the Authorization header for token.
func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
