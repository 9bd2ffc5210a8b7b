package services

import (
	"context"
	"testing"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type silentToaster struct{ last console.Toast }

func (s *silentToaster) Show(message string, kind console.ToastKind) {
	if message != "" {
		s.last = console.Toast{Message: message, Kind: kind}
	}
}

func newBranchScreen(t *testing.T, repo *fakeBranchRepo, session console.Session) (*console.Screen[entities.Branch], *silentToaster) {
	t.Helper()
	svc := NewBranchService(repo, &fakeUserRepo{}, zap.NewNop())
	toast := &silentToaster{}
	screen := console.NewScreen[entities.Branch](authz.ScreenBranches, session, svc, BranchMessages, toast, zap.NewNop())
	require.NoError(t, screen.Load(context.Background()))
	return screen, toast
}

func TestBranchService_Normalize(t *testing.T) {
	svc := NewBranchService(&fakeBranchRepo{}, &fakeUserRepo{}, zap.NewNop())

	_, err := svc.Normalize(entities.Branch{Name: "   "}, false)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "O nome da filial não pode estar vazio.", validationErr.Inline)
	assert.Equal(t, "O nome da filial não pode estar vazio.", validationErr.Toast)

	_, err = svc.Normalize(entities.Branch{Name: "Centro"}, false)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Por favor, selecione um responsável para a nova filial.", validationErr.Inline)
	assert.Equal(t, "Selecione um responsável.", validationErr.Toast)

	_, err = svc.Normalize(entities.Branch{Name: "Centro", Responsible: null.StringFrom(" ")}, true)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Por favor, selecione um responsável para a filial.", validationErr.Inline)

	row, err := svc.Normalize(entities.Branch{Name: "  Centro ", Responsible: null.StringFrom(" carlos ")}, false)
	require.NoError(t, err)
	assert.Equal(t, "Centro", row.Name)
	assert.Equal(t, "carlos", row.Responsible.String)
}

func TestBranchScreen_DuplicateIgnoringCase(t *testing.T) {
	repo := &fakeBranchRepo{}
	screen, toast := newBranchScreen(t, repo, adminSession)
	ctx := context.Background()

	require.NoError(t, screen.Create(ctx, entities.Branch{Name: "Centro", Responsible: null.StringFrom("carlos")}))
	assert.Equal(t, "Filial adicionada com sucesso!", toast.last.Message)
	assert.Equal(t, "admin", repo.rows[0].CreatedByUsername)

	err := screen.Create(ctx, entities.Branch{Name: "centro", Responsible: null.StringFrom("carlos")})
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Já existe uma filial com este nome. Por favor, escolha outro.", validationErr.Inline)
	assert.Equal(t, "Filial já existe.", toast.last.Message)
	assert.Equal(t, 1, repo.inserts)
	assert.Len(t, screen.View().Rows, 1)
}

func TestBranchScreen_EmptyNameNoInsert(t *testing.T) {
	repo := &fakeBranchRepo{}
	screen, _ := newBranchScreen(t, repo, adminSession)

	err := screen.Create(context.Background(), entities.Branch{Name: "", Responsible: null.StringFrom("carlos")})
	require.Error(t, err)
	assert.Equal(t, "O nome da filial não pode estar vazio.", screen.View().Error)
	assert.Zero(t, repo.inserts)
}

func TestBranchScreen_EditDuplicateOfOther(t *testing.T) {
	repo := &fakeBranchRepo{rows: []entities.Branch{
		{ID: 1, Name: "Centro", Responsible: null.StringFrom("carlos")},
		{ID: 2, Name: "Norte", Responsible: null.StringFrom("carlos")},
	}, nextID: 2}
	screen, toast := newBranchScreen(t, repo, adminSession)

	require.NoError(t, screen.BeginEdit(2))
	require.NoError(t, screen.ChangeEdit(2, func(b *entities.Branch) { b.Name = "CENTRO" }))

	err := screen.SaveEdit(context.Background())
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Já existe outra filial com este nome. Por favor, escolha outro.", validationErr.Inline)
	assert.Equal(t, "Nome de filial duplicado.", toast.last.Message)
	assert.Equal(t, "Norte", repo.rows[1].Name)
}

func TestBranchService_SupervisorScope(t *testing.T) {
	repo := &fakeBranchRepo{rows: []entities.Branch{
		{ID: 1, Name: "Centro", Responsible: null.StringFrom("carlos")},
		{ID: 2, Name: "Norte", Responsible: null.StringFrom("outro")},
	}}
	screen, _ := newBranchScreen(t, repo, supervisorSession)

	rows := screen.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Centro", rows[0].Name)
	assert.Equal(t, []string{"carlos"}, repo.scopes)
}

func TestBranchService_LookupsListSupervisors(t *testing.T) {
	users := &fakeUserRepo{rows: []entities.User{
		{ID: 1, Username: "carlos", Role: authz.RoleSupervisor},
		{ID: 2, Username: "joao", Role: authz.RoleDriver},
	}}
	svc := NewBranchService(&fakeBranchRepo{}, users, zap.NewNop())

	lookups, err := svc.Lookups(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, []string{"carlos"}, lookups["supervisors"])
}

func TestBranchService_InsertRaceMapsToDuplicate(t *testing.T) {
	repo := &fakeBranchRepo{rows: []entities.Branch{{ID: 1, Name: "Centro"}}}
	svc := NewBranchService(repo, &fakeUserRepo{}, zap.NewNop())

	err := svc.Insert(context.Background(), adminSession, entities.Branch{Name: "CENTRO"})
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Filial já existe.", validationErr.Toast)
}
