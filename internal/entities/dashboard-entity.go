package entities

type DashboardStats struct {
	EquipmentCount int64  `json:"equipment_count"`
	BranchCount    int64  `json:"branch_count"`
	UserCount      int64  `json:"user_count"`
	UserBranch     string `json:"user_branch"`
}
