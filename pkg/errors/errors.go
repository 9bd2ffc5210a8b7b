package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrSessionNotFound    = fmt.Errorf("сессия не найдена")

	// Консоль
	ErrBusy           = fmt.Errorf("операция уже выполняется")
	ErrNotEditing     = fmt.Errorf("нет записи в режиме редактирования")
	ErrNoPendingModal = fmt.Errorf("нет ожидающего подтверждения")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrDuplicate  = fmt.Errorf("запись с таким значением уже существует")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ValidationError: локальная ошибка проверки данных.
// Inline показывается рядом с формой, Toast: во всплывающем уведомлении (может быть пустым).
type ValidationError struct {
	Inline string
	Toast  string
}

func (e *ValidationError) Error() string { return e.Inline }

func NewValidationError(inline, toast string) *ValidationError {
	return &ValidationError{Inline: inline, Toast: toast}
}

// OperationError: сбой обращения к БД, уже переведённый в пользовательское сообщение.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func NewOperationError(message string, err error) *OperationError {
	return &OperationError{Message: message, Err: err}
}

// HttpError: ошибка транспортного уровня с HTTP-кодом.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: 400, Message: message}
}
