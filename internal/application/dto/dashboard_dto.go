package dto

// DashboardFilterRequest filtros opcionales de GET /api/dashboard/summary.
type DashboardFilterRequest struct {
	Date   string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	ItemID string `query:"item_id"`
}

// DashboardSummaryResponse KPIs del panel principal.
// Los totales de entrada/salida solo consideran transacciones aprobadas.
type DashboardSummaryResponse struct {
	TotalItems           int                   `json:"total_items"`
	TotalLocations       int                   `json:"total_locations"`
	TotalCategories      int                   `json:"total_categories"`
	ActiveUsers          int                   `json:"active_users"`
	PendingTransactions  int                   `json:"pending_transactions"`
	ApprovedTransactions int                   `json:"approved_transactions"`
	InboundTotal         int                   `json:"inbound_total"`
	OutboundTotal        int                   `json:"outbound_total"`
	TopItems             []ItemSummary         `json:"top_items"`
	LatestTransactions   []TransactionResponse `json:"latest_transactions"`
}
