package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes used across handlers and services.
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages.
const (
	MsgSuccess = "Operação realizada com sucesso"

	MsgUnauthorized    = "Não autenticado"
	MsgNotFound        = "Recurso não encontrado"
	MsgValidationError = "Dados inválidos"
	MsgInternalError   = "Erro interno do servidor"

	MsgTokenMissing = "Token não informado"
	MsgTokenInvalid = "Token inválido ou expirado"
)

// ErrorCode identifies an error class for clients and logs.
type ErrorCode struct {
	Code        string // e.g. AUTH_001
	Category    string // e.g. Authentication
	Description string
}

var (
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		Description: "Internal server error",
	}

	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		Description: "Token missing, malformed or expired",
	}
	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		Description: "Invalid credentials",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		Description: "Invalid input data",
	}
	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		Description: "Invalid data format",
	}

	ErrCodeDatabase = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		Description: "Database error",
	}
	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		Description: "Query error",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		Description: "Invalid business operation",
	}
)

// Error carries the error class, a human-readable message and the HTTP
// status to answer with.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

func (e *Error) Error() string {
	return e.Message
}

// Is supports errors.Is against the sentinel errors below.
func (e *Error) Is(target error) bool {
	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
}

// NewError builds an *Error with the given class, message and status.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinel errors.
var (
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Usuário ou senha inválidos", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)

	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Formato de dados inválido", StatusBadRequest, nil)

	ErrNotFound  = NewError(ErrCodeDatabaseQuery, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate = NewError(ErrCodeDatabaseQuery, "Registro já existe", StatusConflict, nil)
)

// Mongo driver errors mapped into the taxonomy.
var (
	ErrMongoConnection = NewError(ErrCodeDatabase, "Erro de conexão com o MongoDB", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabase, "Timeout na operação do MongoDB", StatusServiceUnavailable, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, "Erro de escrita no MongoDB", StatusInternalServerError, nil)
)

// ConvertMongoError translates driver errors into the common taxonomy.
// ErrNotFound passes through untouched so callers can answer 404.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoConnection
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, MsgInternalError, StatusInternalServerError, err)
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return ErrMongoWrite
	}

	return NewError(ErrCodeDatabase, MsgInternalError, StatusInternalServerError, err)
}
