package api

import "fmt"

// RequestFailedError is returned when the server answers with a non-2xx status.
type RequestFailedError struct {
	// Resource names the endpoint family, e.g. "heroes".
	Resource string
	// Status is the HTTP status code.
	Status int
	// Message is the server's {"error"} or {"message"} text, if any.
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request failed with status %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Resource, e.Status, e.Message)
}

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Resource string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a 2xx body cannot be decoded into the expected type.
type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ReadFailedError is returned when a local file cannot be read for upload.
type ReadFailedError struct {
	Path string
	Err  error
}

func (e *ReadFailedError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadFailedError) Unwrap() error { return e.Err }

// UploadFailedError is returned when the upload endpoint rejects a file.
type UploadFailedError struct {
	Filename string
	Status   int
	Message  string
}

func (e *UploadFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload %s: status %d", e.Filename, e.Status)
	}
	return fmt.Sprintf("upload %s: status %d: %s", e.Filename, e.Status, e.Message)
}
