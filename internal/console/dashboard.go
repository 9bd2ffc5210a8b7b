package console

import (
	"context"
	"fmt"
	"sync"

	"tersys/internal/authz"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"go.uber.org/zap"
)

const (
	dashboardLoadFailed = "Erro ao carregar dados do dashboard."
	dashboardLoadToast  = "Erro ao carregar dados."
	noBranchLabel       = "Não atribuído"
)

type DashboardSource interface {
	Stats(ctx context.Context, s Session) (entities.DashboardStats, error)
}

type DashboardView struct {
	Screen   authz.ScreenID          `json:"screen"`
	Greeting string                  `json:"greeting"`
	Role     authz.Role              `json:"role"`
	Branch   string                  `json:"branch"`
	Stats    entities.DashboardStats `json:"stats"`
	Loading  bool                    `json:"loading"`
	Error    string                  `json:"error,omitempty"`
}

// Dashboard только читает счётчики и филиал текущего пользователя.
type Dashboard struct {
	session Session
	src     DashboardSource
	toast   Toaster
	logger  *zap.Logger

	mu      sync.Mutex
	stats   entities.DashboardStats
	loading bool
	err     string
}

func NewDashboard(session Session, src DashboardSource, toast Toaster, logger *zap.Logger) *Dashboard {
	return &Dashboard{session: session, src: src, toast: toast, logger: logger}
}

func (d *Dashboard) ScreenID() authz.ScreenID { return authz.ScreenDashboard }

func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	if d.loading {
		d.mu.Unlock()
		return apperrors.ErrBusy
	}
	d.loading = true
	d.mu.Unlock()

	stats, err := d.src.Stats(ctx, d.session)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false

	if err != nil {
		d.logger.Error("Ошибка загрузки дашборда", zap.String("username", d.session.Username), zap.Error(err))
		d.err = dashboardLoadFailed
		d.toast.Show(dashboardLoadToast, ToastError)
		return apperrors.NewOperationError(dashboardLoadFailed, err)
	}

	d.stats = stats
	d.err = ""
	return nil
}

func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	branch := d.stats.UserBranch
	if branch == "" {
		branch = noBranchLabel
	}
	return DashboardView{
		Screen:   authz.ScreenDashboard,
		Greeting: fmt.Sprintf("Bem-vindo, %s!", d.session.Username),
		Role:     d.session.Role,
		Branch:   branch,
		Stats:    d.stats,
		Loading:  d.loading,
		Error:    d.err,
	}
}
