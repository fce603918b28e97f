package response

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

const (
	// MessageSuccess is the message for successful responses.
	MessageSuccess = "Success"

	// DefaultErrorMessage is returned for unexpected internal failures.
	DefaultErrorMessage = "Something went wrong"

	// InternalServerErrorCode marks unexpected internal failures.
	InternalServerErrorCode = 500
)
