package httpapi

import (
	"net/http"

	"github.com/nitelabs/niteos/internal/server/auth"
)

type loginRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// handleLogin issues an access token for an existing account. There is no
// password flow; possession of the account id is the demo credential.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if _, err := s.accounts.GetByID(r.Context(), req.UserID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(req.UserID, []byte(s.cfg.SecretKey), s.cfg.AccessTokenValidityDuration)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}
