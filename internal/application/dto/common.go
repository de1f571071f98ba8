package dto

// Response sobre de éxito: {ok:true, data}.
type Response struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// ErrorResponse sobre de error: {ok:false, error:CODE, message}.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// OK envuelve data en el sobre de éxito.
func OK(data any) Response {
	return Response{OK: true, Data: data}
}

// Fail construye el sobre de error.
func Fail(code, message string) ErrorResponse {
	return ErrorResponse{OK: false, Error: code, Message: message}
}
