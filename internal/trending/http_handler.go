package trending

import (
	"net/http"

	"booktrack/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Refresh handles POST /internal/jobs/refresh. It runs a synchronous
// ingestion pass and returns the run record.
func (h *HTTPHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Internal-Secret")
	if h.secret != "" && secret != h.secret {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	run, err := h.svc.Run(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "REFRESH_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccess(w, r, run, nil)
}
