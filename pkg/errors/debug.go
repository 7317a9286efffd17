package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable"`

	Chain []string `json:"chain,omitempty"`

	BackendStatus   int    `json:"backend_status,omitempty"`
	BackendResource string `json:"backend_resource,omitempty"`
}

// BackendDetails is attached by the backend client to every error it maps.
type BackendDetails struct {
	Status   int    `json:"status"`
	Resource string `json:"resource"`
	Message  string `json:"message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
		if details, ok := te.Details().(BackendDetails); ok {
			d.BackendStatus = details.Status
			d.BackendResource = details.Resource
		}
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}
