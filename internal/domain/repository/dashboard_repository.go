package repository

import "context"

// DashboardFilter filtros opcionales de los totales de movimientos.
type DashboardFilter struct {
	Date   string
	ItemID string
}

// DashboardCounts conteos globales para el resumen.
type DashboardCounts struct {
	Items         int
	Locations     int
	Categories    int
	ActiveUsers   int
	Pending       int
	Approved      int
	InboundTotal  int // suma de cantidades aprobadas de entrada
	OutboundTotal int // suma de cantidades aprobadas de salida
}

// DashboardRepository consultas de solo lectura para el panel.
type DashboardRepository interface {
	Counts(ctx context.Context, filter DashboardFilter) (*DashboardCounts, error)
}
