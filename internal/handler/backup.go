package handler

import (
	"net/http"

	"github.com/sambright/nestegg/internal/backup"
)

type BackupHandler struct {
	backups *backup.Service // nil when no S3 target is configured
}

func NewBackupHandler(backups *backup.Service) *BackupHandler {
	return &BackupHandler{backups: backups}
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"error":   "backups are not configured",
		})
		return
	}

	key, err := h.backups.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "key": key})
}
