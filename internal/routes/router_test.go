package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/pkg/customvalidator"
	apperrors "tersys/pkg/errors"
	"tersys/pkg/middleware"
	"tersys/pkg/service"
	"tersys/pkg/utils"

	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeResolver struct {
	sessions map[string]console.Session
}

func (f *fakeResolver) Resume(_ context.Context, id string) (console.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return console.Session{}, apperrors.ErrSessionNotFound
	}
	return s, nil
}

type memoryBranches struct {
	mu     sync.Mutex
	rows   []entities.Branch
	nextID int64
}

func (m *memoryBranches) List(context.Context, console.Session) ([]entities.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.Branch, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memoryBranches) Normalize(draft entities.Branch, _ bool) (entities.Branch, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return draft, apperrors.NewValidationError("O nome da filial é obrigatório.", "")
	}
	return draft, nil
}

func (m *memoryBranches) Conflict(context.Context, entities.Branch, int64) error { return nil }

func (m *memoryBranches) Insert(_ context.Context, s console.Session, row entities.Branch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	row.ID = m.nextID
	row.CreatedByUsername = s.Username
	m.rows = append(m.rows, row)
	return nil
}

func (m *memoryBranches) Update(_ context.Context, _ console.Session, row entities.Branch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == row.ID {
			m.rows[i] = row
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memoryBranches) Delete(_ context.Context, _ console.Session, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memoryBranches) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type staticStats struct{}

func (staticStats) Stats(context.Context, console.Session) (entities.DashboardStats, error) {
	return entities.DashboardStats{EquipmentCount: 4, BranchCount: 2, UserCount: 3, UserBranch: "Matriz"}, nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Body    json.RawMessage `json:"body"`
	Message string          `json:"message"`
}

type RouterTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	jwt        service.JWTService
	branches   *memoryBranches
	resolver   *fakeResolver
	workspaces *console.Workspaces
}

func (s *RouterTestSuite) SetupTest() {
	logger := zap.NewNop()

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	s.branches = &memoryBranches{}
	gate := authz.NewGatekeeper(authz.NavItems)
	shell := NewShell(gate, ConsoleSources{Branches: s.branches, Dashboard: staticStats{}}, logger)
	workspaces := console.NewWorkspaces(shell, clock.NewMock(), 3*time.Second, 12*time.Hour, nil)

	s.jwt = service.NewJWTService("test-secret", time.Hour)
	s.resolver = &fakeResolver{sessions: map[string]console.Session{
		"s-admin": {ID: "s-admin", Username: "admin", Role: authz.RoleAdministrator},
		"s-sup":   {ID: "s-sup", Username: "carlos", Role: authz.RoleSupervisor},
	}}
	s.workspaces = workspaces
	authMW := middleware.NewAuthMiddleware(s.jwt, s.resolver, workspaces, logger)

	RegisterRoutes(e.Group("/api"), NewHandlers(logger), authMW, gate, logger)
	s.echo = e
}

func (s *RouterTestSuite) token(sessionID, username string, role authz.Role) string {
	token, _, err := s.jwt.GenerateToken(sessionID, username, role.String())
	s.Require().NoError(err)
	return token
}

func (s *RouterTestSuite) adminToken() string {
	return s.token("s-admin", "admin", authz.RoleAdministrator)
}

func (s *RouterTestSuite) do(method, path, token, body string) (int, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (s *RouterTestSuite) TestRequiresToken() {
	code, _ := s.do(http.MethodGet, "/api/shell", "", "")
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterTestSuite) TestTokenWithoutLiveSessionRejected() {
	code, _ := s.do(http.MethodGet, "/api/shell", s.token("s-gone", "admin", authz.RoleAdministrator), "")
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterTestSuite) TestExpiredSessionDropsWorkspace() {
	code, _ := s.do(http.MethodGet, "/api/shell", s.adminToken(), "")
	s.Require().Equal(http.StatusOK, code)
	s.Equal(1, s.workspaces.Len())

	delete(s.resolver.sessions, "s-admin")

	code, _ = s.do(http.MethodGet, "/api/shell", s.adminToken(), "")
	s.Equal(http.StatusUnauthorized, code)
	s.Zero(s.workspaces.Len())
}

func (s *RouterTestSuite) TestTokenForAnotherUserRejected() {
	code, _ := s.do(http.MethodGet, "/api/shell", s.token("s-admin", "mallory", authz.RoleAdministrator), "")
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterTestSuite) TestShellMenuFollowsRole() {
	code, env := s.do(http.MethodGet, "/api/shell", s.token("s-sup", "carlos", authz.RoleSupervisor), "")
	s.Require().Equal(http.StatusOK, code)

	var shell struct {
		Role authz.Role      `json:"role"`
		Menu []authz.NavItem `json:"menu"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &shell))
	s.Equal(authz.RoleSupervisor, shell.Role)
	s.Require().Len(shell.Menu, 2)
	s.Equal(authz.ScreenDashboard, shell.Menu[0].ID)
	s.Equal(authz.ScreenOutsourcing, shell.Menu[1].ID)
}

func (s *RouterTestSuite) TestSupervisorCannotMountBranchScreen() {
	token := s.token("s-sup", "carlos", authz.RoleSupervisor)

	code, _ := s.do(http.MethodPost, "/api/shell/navigate/branchManagement", token, "")
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/api/branches", token, `{"name":"Filial Sul"}`)
	s.Equal(http.StatusForbidden, code)
	s.Zero(s.branches.len())
}

func (s *RouterTestSuite) TestUnknownScreen() {
	code, _ := s.do(http.MethodPost, "/api/shell/navigate/reports", s.adminToken(), "")
	s.Equal(http.StatusNotFound, code)
}

func (s *RouterTestSuite) TestCreateBranchReturnsScreenSnapshot() {
	code, env := s.do(http.MethodPost, "/api/branches", s.adminToken(), `{"name":"  Filial Norte ","responsible":"carlos"}`)
	s.Require().Equal(http.StatusCreated, code)

	var view console.View[entities.Branch]
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Require().Len(view.Rows, 1)
	s.Equal("Filial Norte", view.Rows[0].Name)
	s.Equal("admin", view.Rows[0].CreatedByUsername)
	s.Empty(view.Form.Name)
}

func (s *RouterTestSuite) TestCreateBranchValidationError() {
	code, env := s.do(http.MethodPost, "/api/branches", s.adminToken(), `{"name":"   "}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("O nome da filial é obrigatório.", env.Message)

	var view console.View[entities.Branch]
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Equal("O nome da filial é obrigatório.", view.Error)
	s.Zero(s.branches.len())
}

func (s *RouterTestSuite) TestDeleteNeedsConfirmation() {
	token := s.adminToken()
	code, _ := s.do(http.MethodPost, "/api/branches", token, `{"name":"Filial Norte"}`)
	s.Require().Equal(http.StatusCreated, code)

	code, env := s.do(http.MethodDelete, "/api/branches/1", token, "")
	s.Require().Equal(http.StatusAccepted, code)
	s.Equal(1, s.branches.len())

	var modal struct {
		Message string `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &modal))
	s.NotEmpty(modal.Message)

	code, _ = s.do(http.MethodPost, "/api/console/modal/confirm", token, "")
	s.Equal(http.StatusOK, code)
	s.Zero(s.branches.len())

	code, _ = s.do(http.MethodPost, "/api/console/modal/confirm", token, "")
	s.Equal(http.StatusConflict, code)
}

func (s *RouterTestSuite) TestCancelDeleteKeepsRow() {
	token := s.adminToken()
	s.do(http.MethodPost, "/api/branches", token, `{"name":"Filial Norte"}`)
	s.do(http.MethodDelete, "/api/branches/1", token, "")

	code, _ := s.do(http.MethodPost, "/api/console/modal/cancel", token, "")
	s.Equal(http.StatusOK, code)
	s.Equal(1, s.branches.len())
}

func (s *RouterTestSuite) TestEditFlow() {
	token := s.adminToken()
	s.do(http.MethodPost, "/api/branches", token, `{"name":"Filial Norte"}`)

	code, _ := s.do(http.MethodPost, "/api/branches/1/edit", token, "")
	s.Require().Equal(http.StatusOK, code)

	code, env := s.do(http.MethodPatch, "/api/branches/1/edit", token, `{"name":"Filial Leste"}`)
	s.Require().Equal(http.StatusOK, code)
	var view console.View[entities.Branch]
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Require().NotNil(view.Editing)
	s.Equal("Filial Leste", view.Editing.Name)

	code, env = s.do(http.MethodPost, "/api/branches/edit/save", token, "")
	s.Require().Equal(http.StatusOK, code)
	view = console.View[entities.Branch]{}
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Nil(view.Editing)
	s.Equal("Filial Leste", view.Rows[0].Name)

	code, _ = s.do(http.MethodDelete, "/api/branches/edit", token, "")
	s.Equal(http.StatusConflict, code)
}

func (s *RouterTestSuite) TestDashboard() {
	code, env := s.do(http.MethodGet, "/api/dashboard", s.adminToken(), "")
	s.Require().Equal(http.StatusOK, code)

	var view console.DashboardView
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Equal("Bem-vindo, admin!", view.Greeting)
	s.Equal("Matriz", view.Branch)
	s.EqualValues(2, view.Stats.BranchCount)
}

func (s *RouterTestSuite) TestToastAfterCreate() {
	token := s.adminToken()
	s.do(http.MethodPost, "/api/branches", token, `{"name":"Filial Norte"}`)

	code, env := s.do(http.MethodGet, "/api/console/toast", token, "")
	s.Require().Equal(http.StatusOK, code)
	var toast console.Toast
	s.Require().NoError(json.Unmarshal(env.Body, &toast))
	s.Equal(console.ToastSuccess, toast.Kind)

	req := httptest.NewRequest(http.MethodDelete, "/api/console/toast", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	s.Equal(http.StatusNoContent, rec.Code)

	_, env = s.do(http.MethodGet, "/api/console/toast", token, "")
	s.Empty(env.Body)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
