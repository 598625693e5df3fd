package dto

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TxID    string `json:"txId,omitempty"`
	Result  any    `json:"result"`
}

type ErrorDetail struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type ErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
}
