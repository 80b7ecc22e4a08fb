package dto

// Response statuses used by the envelope convention.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform response body: {"status":"success","data":...} on
// success, {"status":"error","message":...} or {"status":"error","errors":[...]}
// on failure.
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

// Error wraps a single message in an error envelope.
func Error(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}
