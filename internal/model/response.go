package model

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Token   string `json:"token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
