package api

import (
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-accounts/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-accounts/internal/shared/errors"
)

// UserAccount приветствует аутентифицированного пользователя по email.
//
// Username берётся из Identity, которую кладёт JWT middleware.
//
// @Summary      Account details
// @Description  Returns a plain-text greeting with the email of the authenticated user.
// @Tags         accounts
// @Produce      plain
// @Security     BearerAuth
// @Success      200 {string} string "Hello, alice@example.com"
// @Failure      401 {string} string "Unauthorized"
// @Failure      404 {string} string "User not found"
// @Failure      500 {string} string "Internal server error"
// @Router       /accounts/details/ [get]
func (h *Handler) UserAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, serr.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return
	}

	u, err := h.Svc.Accounts.Details(r.Context(), id.Username)
	if err != nil {
		// ответ text/plain, как и успешный
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.Log.Error("account details failed",
				zap.String("username", id.Username),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.Error(err),
			)
			err = serr.ErrInternal
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set(ContentType, TextContentType)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "Hello, "+u.String())
}
