package api

import (
	"database/sql"
	"net/http"

	"github.com/lostfound/registry/internal/files"
)

// NewRouter creates the API router with all endpoints registered.
// Only item mutation requires authentication: the Authorization header
// must carry an admin bearer token.
func NewRouter(db *sql.DB, jwtSecret string, uploads *files.Store) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db, Files: uploads}

	authMW := AuthMiddleware(jwtSecret)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}

	// Public routes.
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /item", itemsHandler.List)
	mux.HandleFunc("POST /item", itemsHandler.Create)
	mux.HandleFunc("GET /item/{id}", itemsHandler.Get)

	// Admin routes: authentication first, then the role check.
	mux.Handle("PUT /item/{id}", admin(itemsHandler.Update))
	mux.Handle("DELETE /item/{id}", admin(itemsHandler.Delete))

	return RecoverMiddleware(mux)
}
