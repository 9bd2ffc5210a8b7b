package utils

import (
	"context"

	"tersys/internal/console"
	"tersys/pkg/contextkeys"
	apperrors "tersys/pkg/errors"
)

func GetSessionFromCtx(ctx context.Context) (console.Session, error) {
	session, ok := ctx.Value(contextkeys.SessionKey).(console.Session)
	if !ok || !session.Valid() {
		return console.Session{}, apperrors.ErrUnauthorized
	}
	return session, nil
}

func GetWorkspaceFromCtx(ctx context.Context) (*console.Workspace, error) {
	ws, ok := ctx.Value(contextkeys.WorkspaceKey).(*console.Workspace)
	if !ok || ws == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return ws, nil
}
