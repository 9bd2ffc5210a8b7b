package routes

import (
	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/services"

	"go.uber.org/zap"
)

// ConsoleSources: источники данных экранов консоли.
type ConsoleSources struct {
	Branches    console.Collection[entities.Branch]
	Equipment   console.Collection[entities.Equipment]
	Users       console.Collection[entities.User]
	Outsourcing console.AssignSource[entities.OutsourcedWorker]
	Transfers   console.AssignSource[entities.Equipment]
	Dashboard   console.DashboardSource
}

// NewShell собирает таблицу экранов. Каждый вызов фабрики создаёт экран с чистым состоянием.
func NewShell(gate *authz.Gatekeeper, src ConsoleSources, logger *zap.Logger) *console.Shell {
	return console.NewShell(gate, map[authz.ScreenID]console.Factory{
		authz.ScreenDashboard: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewDashboard(s, src.Dashboard, toast, logger)
		},
		authz.ScreenBranches: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewScreen(authz.ScreenBranches, s, src.Branches, services.BranchMessages, toast, logger)
		},
		authz.ScreenEquipment: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewScreen(authz.ScreenEquipment, s, src.Equipment, services.EquipmentMessages, toast, logger)
		},
		authz.ScreenUsers: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewScreen(authz.ScreenUsers, s, src.Users, services.UserMessages, toast, logger)
		},
		authz.ScreenOutsourcing: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewAssigner(authz.ScreenOutsourcing, s, src.Outsourcing, services.OutsourcingMessages, toast, logger)
		},
		authz.ScreenTransfer: func(s console.Session, toast console.Toaster) console.Page {
			return console.NewAssigner(authz.ScreenTransfer, s, src.Transfers, services.TransferMessages, toast, logger)
		},
	})
}
