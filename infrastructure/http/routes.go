package http

import (
	"github.com/go-chi/chi/v5"

	adminusers "scanstation/frontend/adminUsers"
	"scanstation/frontend/batches"
	"scanstation/frontend/help"
	"scanstation/frontend/labels"
	"scanstation/frontend/reports"
	stockin "scanstation/frontend/stockIn"
	stockout "scanstation/frontend/stockOut"
)

// RegisterKioskRoutes registers the scanning pages and their APIs.
func (s *Server) RegisterKioskRoutes(r chi.Router) {
	r.Get("/stock-in", stockin.StockInPageQueryHandler(s.StockIn, s.Role))
	r.Get("/stock-in/{session}", stockin.StockInMirrorPageQueryHandler(s.StockIn, s.Role))
	r.Post("/api/stock-in/{session}/decode", stockin.DecodeCommandHandler(s.StockIn))
	r.Post("/api/stock-in/{session}/submit", stockin.SubmitCommandHandler(s.StockIn))

	r.Get("/stock-out", stockout.StockOutPageQueryHandler(s.StockOut, s.Role))
	r.Post("/api/stock-out/{session}/scan", stockout.ScanCommandHandler(s.StockOut))
}

// RegisterStockRoutes registers the inventory views and reports.
func (s *Server) RegisterStockRoutes(r chi.Router) {
	r.Get("/stock", reports.StockPageQueryHandler(s.Inventory, s.Role))
	r.Get("/stock/activated", reports.ActivatedPageQueryHandler(s.Inventory, s.Role))
	r.Get("/stock/summary", reports.SummaryPageQueryHandler(s.Inventory, s.Role))
	r.Get("/stock/report", reports.DownloadReportHandler(s.Inventory))
	r.Get("/stock/export.xlsx", reports.ExportStockHandler(s.Inventory))
}

// RegisterBatchRoutes registers the local submission journal.
func (s *Server) RegisterBatchRoutes(r chi.Router) {
	r.Get("/batches", batches.BatchesPageQueryHandler(s.DB, s.Role))
	r.Get("/batches/{id}", batches.BatchDetailPageQueryHandler(s.DB, s.Audit, s.Role))
	r.Get("/batches/{id}/sheet.pdf", labels.BatchSheetHandler(s.DB))

	r.Get("/help", help.HelpPageQueryHandler(s.Role))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.Inventory, s.Role))
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.Inventory))
	r.Post("/admin/users/{id}/delete", adminusers.DeleteUserCommandHandler(s.Inventory))
	r.Post("/admin/users/{id}/password", adminusers.ChangePasswordCommandHandler(s.Inventory))
}
