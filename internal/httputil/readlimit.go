// Package httputil provides HTTP client utilities shared by the remote API
// clients.
package httputil

import (
	"fmt"
	"io"
)

// ReadAllWithLimit reads r up to limit bytes. It reports whether the body was
// truncated at the limit. Use it for error bodies where a partial read is
// acceptable.
func ReadAllWithLimit(r io.Reader, limit int64) (data []byte, truncated bool, err error) {
	data, err = io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) == limit {
		// Probe one extra byte to distinguish "exactly limit" from "over".
		var probe [1]byte
		n, probeErr := r.Read(probe[:])
		if n > 0 {
			truncated = true
		}
		if probeErr != nil && probeErr != io.EOF {
			return data, truncated, probeErr
		}
	}
	return data, truncated, nil
}

// ReadAllStrict reads r up to limit bytes and fails if the body exceeds the
// limit. Use it for payloads that must be consumed whole.
func ReadAllStrict(r io.Reader, limit int64) ([]byte, error) {
	data, truncated, err := ReadAllWithLimit(r, limit)
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
