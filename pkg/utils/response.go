package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "tersys/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const genericErrorMessage = "Erro interno do servidor."

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// ErrorResponse переводит ошибку в HTTP-ответ. body (если передан) отдаётся клиенту,
// чтобы он мог перерисовать экран после неудачной операции.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger, body ...interface{}) error {
	code, message := ResolveError(err)

	switch {
	case code >= http.StatusInternalServerError:
		logger.Error("Ошибка обработки запроса",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	default:
		logger.Debug("Запрос отклонён",
			zap.String("uri", c.Request().RequestURI),
			zap.Int("code", code),
			zap.Error(err),
		)
	}

	response := &HTTPResponse{Status: false, Message: message}
	if len(body) > 0 {
		response.Body = body[0]
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) && response.Body == nil {
		response.Body = map[string]string{"inline": validationErr.Inline, "toast": validationErr.Toast}
	}

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) && httpErr.Details != nil && response.Body == nil {
		response.Body = httpErr.Details
	}

	return c.JSON(code, response)
}

// ResolveError возвращает HTTP-код и сообщение для пользователя.
func ResolveError(err error) (int, string) {
	var (
		httpErr        *apperrors.HttpError
		validationErr  *apperrors.ValidationError
		operationErr   *apperrors.OperationError
		validationErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Inline
	case errors.As(err, &validationErrs):
		var msgs []string
		for _, e := range validationErrs {
			msgs = append(msgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
		}
		return http.StatusBadRequest, "Dados inválidos: " + strings.Join(msgs, "; ")
	case errors.As(err, &operationErr):
		// сообщение экрана важнее обёрнутой причины (например, ErrNotFound)
		return http.StatusInternalServerError, operationErr.Message
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Acesso negado."
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Registro não encontrado."
	case errors.Is(err, apperrors.ErrBusy):
		return http.StatusConflict, "Aguarde a conclusão da operação em andamento."
	case errors.Is(err, apperrors.ErrNotEditing):
		return http.StatusConflict, "Nenhum registro está em edição."
	case errors.Is(err, apperrors.ErrNoPendingModal):
		return http.StatusConflict, "Nenhuma confirmação pendente."
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrInvalidSigningMethod),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader):
		return http.StatusUnauthorized, "Sessão inválida. Faça login novamente."
	}
	return http.StatusInternalServerError, genericErrorMessage
}
