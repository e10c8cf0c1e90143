// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vechain/stakecampaign/builtin/reverts"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// RevertStatus maps a revert onto the status code it is responded with.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.KindAuthorization:
		return http.StatusForbidden
	case reverts.KindTemporal:
		return http.StatusConflict
	case reverts.KindNotFound:
		return http.StatusNotFound
	case reverts.KindArithmetic, reverts.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// RevertBody is the response body of a reverted call.
type RevertBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// httpError and revert errors are responded with their status code,
// anything else with http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if kind, ok := reverts.KindOf(err); ok {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(RevertStatus(kind))
			_ = json.NewEncoder(w).Encode(&RevertBody{Error: err.Error(), Kind: kind.String()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
