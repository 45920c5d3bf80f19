// Package request holds helpers for reading HTTP request bodies.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrEmptyBody is returned when the client sent no JSON at all.
var ErrEmptyBody = errors.New("request body is empty")

// maxBodyBytes bounds every JSON body the API accepts.
const maxBodyBytes = 1 << 20

// DecodeJSON reads the body of r into dst. io.EOF means the body was
// completely empty and is reported as ErrEmptyBody.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}
