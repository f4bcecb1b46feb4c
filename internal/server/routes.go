package server

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Plan generation
	mux.HandleFunc("/api/plan", s.app.PlanHandler.GeneratePlanHandler) // POST

	// Retrieval inspection
	mux.HandleFunc("/api/context", s.app.ContextHandler.RetrieveHandler) // POST

	// Transactions
	mux.HandleFunc("/api/transactions", s.app.TransactionHandler.TransactionsHandler)    // GET (list), POST (upsert)
	mux.HandleFunc("/api/transactions/", s.app.TransactionHandler.TransactionByIDHandler) // GET/DELETE /{id}

	// Status
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler) // GET
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)    // GET

	return mux
}
