package routes

import (
	"github.com/benbjohnson/clock"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/controllers"
	"tersys/internal/dto"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	"tersys/internal/services"
	"tersys/pkg/config"
	"tersys/pkg/middleware"
	"tersys/pkg/service"
	appwebsocket "tersys/pkg/websocket"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Console *zap.Logger
}

// Handlers: всё, что нужно для регистрации маршрутов.
type Handlers struct {
	Auth        *controllers.AuthController
	Shell       *controllers.ShellController
	Console     *controllers.ConsoleController
	Dashboard   *controllers.DashboardController
	Branches    *controllers.ScreenController[entities.Branch, dto.CreateBranchDTO, dto.UpdateBranchDTO]
	Equipment   *controllers.ScreenController[entities.Equipment, dto.CreateEquipmentDTO, dto.UpdateEquipmentDTO]
	Users       *controllers.ScreenController[entities.User, dto.CreateUserDTO, dto.UpdateUserDTO]
	Outsourcing *controllers.AssignController[entities.OutsourcedWorker]
	Transfers   *controllers.AssignController[entities.Equipment]
	Reports     *controllers.EquipmentController
	WebSocket   *controllers.WebSocketController
}

// InitRouter собирает репозитории, сервисы и консоль и регистрирует маршруты.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *appwebsocket.Hub,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	sessionRepo := repositories.NewSessionRepository(cacheRepo)
	userRepo := repositories.NewUserRepository(dbConn, loggers.Main)
	branchRepo := repositories.NewBranchRepository(dbConn, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Main)
	workerRepo := repositories.NewOutsourcedRepository(dbConn, loggers.Main)
	transferRepo := repositories.NewTransferRepository(dbConn, loggers.Main)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, loggers.Main)

	// --- 2. СЕРВИСЫ ---
	clk := clock.New()
	authService := services.NewAuthService(userRepo, sessionRepo, cacheRepo, clk, loggers.Auth, &cfg.Auth)
	transferService := services.NewTransferService(equipmentRepo, branchRepo, transferRepo, txManager, loggers.Console)
	sources := ConsoleSources{
		Branches:    services.NewBranchService(branchRepo, userRepo, loggers.Console),
		Equipment:   services.NewEquipmentService(equipmentRepo, branchRepo, loggers.Console),
		Users:       services.NewUserService(userRepo, branchRepo, loggers.Console),
		Outsourcing: services.NewOutsourcingService(workerRepo, branchRepo, loggers.Console),
		Transfers:   transferService,
		Dashboard:   services.NewDashboardService(dashboardRepo, loggers.Console),
	}

	// --- 3. КОНСОЛЬ ---
	gate := authz.NewGatekeeper(authz.NavItems)
	shell := NewShell(gate, sources, loggers.Console)
	workspaces := console.NewWorkspaces(shell, clk, cfg.Console.ToastTTL, cfg.Auth.SessionTTL, ToastPublisher(hub, loggers.Console))

	// --- 4. КОНТРОЛЛЕРЫ ---
	h := NewHandlers(loggers.Console)
	h.Auth = controllers.NewAuthController(authService, jwtSvc, workspaces, hub, loggers.Auth)
	h.Reports = controllers.NewEquipmentController(services.NewEquipmentExporter(equipmentRepo), transferService, loggers.Console)
	h.WebSocket = controllers.NewWebSocketController(hub, loggers.Main)

	authMW := middleware.NewAuthMiddleware(jwtSvc, authService, workspaces, loggers.Auth)
	RegisterRoutes(e.Group("/api", middleware.QueryTimeout(cfg.Postgres.QueryTimeout)), h, authMW, gate, loggers.Main)

	loggers.Main.Info("InitRouter: Создание маршрутов завершено")
}

// NewHandlers создаёт контроллеры, не зависящие от внешних сервисов.
func NewHandlers(logger *zap.Logger) Handlers {
	return Handlers{
		Shell:       controllers.NewShellController(logger),
		Console:     controllers.NewConsoleController(logger),
		Dashboard:   controllers.NewDashboardController(logger),
		Branches:    controllers.NewScreenController[entities.Branch, dto.CreateBranchDTO, dto.UpdateBranchDTO](authz.ScreenBranches, logger),
		Equipment:   controllers.NewScreenController[entities.Equipment, dto.CreateEquipmentDTO, dto.UpdateEquipmentDTO](authz.ScreenEquipment, logger),
		Users:       controllers.NewScreenController[entities.User, dto.CreateUserDTO, dto.UpdateUserDTO](authz.ScreenUsers, logger),
		Outsourcing: controllers.NewAssignController[entities.OutsourcedWorker](authz.ScreenOutsourcing, logger),
		Transfers:   controllers.NewAssignController[entities.Equipment](authz.ScreenTransfer, logger),
	}
}

// ToastPublisher пересылает каждое изменение тоста в websocket-соединения сессии.
func ToastPublisher(hub *appwebsocket.Hub, logger *zap.Logger) func(sessionID string, toast console.Toast, visible bool) {
	return func(sessionID string, toast console.Toast, visible bool) {
		payload := appwebsocket.ToastPayload{Message: toast.Message, Kind: string(toast.Kind), Visible: visible}
		if err := hub.SendToSession(sessionID, appwebsocket.MessageTypeToast, payload); err != nil {
			logger.Warn("Не удалось отправить тост", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

func RegisterRoutes(api *echo.Group, h Handlers, authMW *middleware.AuthMiddleware, gate *authz.Gatekeeper, logger *zap.Logger) {
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
	}

	secure := api.Group("", authMW.Auth)

	if h.Auth != nil {
		secure.GET("/auth/session", h.Auth.Session)
		secure.POST("/auth/logout", h.Auth.Logout)
	}
	if h.WebSocket != nil {
		secure.GET("/ws", h.WebSocket.ServeWs)
	}

	secure.GET("/shell", h.Shell.GetShell)
	secure.POST("/shell/navigate/:screen", h.Shell.Navigate)

	secure.GET("/console/modal", h.Console.GetModal)
	secure.POST("/console/modal/confirm", h.Console.ConfirmModal)
	secure.POST("/console/modal/cancel", h.Console.CancelModal)
	secure.GET("/console/toast", h.Console.GetToast)
	secure.DELETE("/console/toast", h.Console.CloseToast)

	secure.GET("/dashboard", h.Dashboard.GetDashboard)

	runScreenRouter(secure.Group("/branches"), h.Branches)
	runScreenRouter(secure.Group("/equipment"), h.Equipment)
	runScreenRouter(secure.Group("/users"), h.Users)

	runAssignRouter(secure.Group("/outsourcing"), h.Outsourcing)
	transfers := secure.Group("/transfers")
	runAssignRouter(transfers, h.Transfers)

	if h.Reports != nil {
		secure.GET("/equipment/export", h.Reports.Export, middleware.RequireScreen(gate, authz.ScreenEquipment, logger))
		transfers.GET("/history", h.Reports.TransferHistory, middleware.RequireScreen(gate, authz.ScreenTransfer, logger))
	}
}

type screenHandlers interface {
	GetScreen(echo.Context) error
	Create(echo.Context) error
	BeginEdit(echo.Context) error
	ChangeEdit(echo.Context) error
	SaveEdit(echo.Context) error
	CancelEdit(echo.Context) error
	RequestDelete(echo.Context) error
}

func runScreenRouter(g *echo.Group, ctrl screenHandlers) {
	g.GET("", ctrl.GetScreen)
	g.POST("", ctrl.Create)
	g.POST("/edit/save", ctrl.SaveEdit)
	g.DELETE("/edit", ctrl.CancelEdit)
	g.POST("/:id/edit", ctrl.BeginEdit)
	g.PATCH("/:id/edit", ctrl.ChangeEdit)
	g.DELETE("/:id", ctrl.RequestDelete)
}

type assignHandlers interface {
	GetScreen(echo.Context) error
	Select(echo.Context) error
	Assign(echo.Context) error
}

func runAssignRouter(g *echo.Group, ctrl assignHandlers) {
	g.GET("", ctrl.GetScreen)
	g.POST("/select", ctrl.Select)
	g.POST("/assign", ctrl.Assign)
}
