package identity

// User пользователь, как его возвращает провайдер (GET /auth/v1/user)
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}
