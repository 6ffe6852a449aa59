package errors

// Messages carried in the "message" field of error responses. Existing clients
// match on these strings, including the "Unprocessible" spelling.
const (
	MsgBadRequest       = "Bad Request"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgUnprocessable    = "Unprocessible"
	MsgInternalError    = "Internal Server Error"
)
