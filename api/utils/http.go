// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package utils carries the JSON plumbing shared by the HTTP handlers:
// error-returning handlers with a status attached to the error, and strict
// JSON parsing.
package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// HTTPError carries the status code a handler wants responded alongside the
// cause reported to the client.
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// WithStatus attaches a status code to the error.
func WithStatus(status int, err error) error {
	return &HTTPError{Status: status, Err: err}
}

func BadRequest(err error) error { return WithStatus(http.StatusBadRequest, err) }
func Forbidden(err error) error  { return WithStatus(http.StatusForbidden, err) }
func NotFound(err error) error   { return WithStatus(http.StatusNotFound, err) }

// HandlerFunc is an http.HandlerFunc that reports failure by returning an
// error instead of writing the response itself.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts a HandlerFunc for the router. A returned *HTTPError
// selects the response status; any other error responds 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var he *HTTPError
		if errors.As(err, &he) {
			status = he.Status
			if he.Err == nil {
				w.WriteHeader(status)
				return
			}
		}
		http.Error(w, err.Error(), status)
	}
}

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// ParseJSON decodes a JSON object, rejecting unknown fields.
func ParseJSON(r io.Reader, v interface{}) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds with the JSON encoding of obj.
func WriteJSON(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]interface{}.
type M map[string]interface{}
