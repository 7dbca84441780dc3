package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/seven-a-side/internal/auth"
)

// LoginRequest carries the credentials to check.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler reports which role the credentials grant. No session is created;
// clients send the same credentials with every admin request.
func LoginHandler(verifier auth.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(w, r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		role, err := verifier.Verify(req.Username, req.Password)
		if err != nil {
			log.Warn("Failed login attempt", "username", req.Username)
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]auth.Role{"role": role})
	}
}
