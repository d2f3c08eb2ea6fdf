package dto

import "time"

// UserCreateInput é o corpo de POST /auth/criar-usuario.
type UserCreateInput struct {
	Username string `json:"username" validate:"required,no_xss"`
	Password string `json:"password" validate:"required,min=4"`
}

// UserLoginInput é o corpo de POST /auth/login.
type UserLoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserCreatedOutput confirma a criação do usuário.
type UserCreatedOutput struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// TokenOutput devolve o JWT emitido no login.
type TokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserOutput é o usuário atual sem o hash de senha.
type UserOutput struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
