package handlers

import (
	"net/http"

	"github.com/abrezinsky/raffledraw/internal/services"
)

// ==================== Display ====================

func (h *Handlers) handleGetLive(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Workspace.LiveSnapshot()
	if !ok {
		respondOK(w, LiveResponse{Active: false})
		return
	}
	respondOK(w, LiveResponse{Active: true, Snapshot: &snap})
}

func (h *Handlers) handleDisplayQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Settings.DisplayQR(r.Context(), requestBaseURL(r))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Live Session ====================

func (h *Handlers) handleStartDraw(w http.ResponseWriter, r *http.Request) {
	session, err := h.Workspace.Session()
	if err != nil {
		respondError(w, err)
		return
	}

	if err := session.StartDraw(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session.Snapshot())
}

func (h *Handlers) handleNextWinner(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, (*services.Session).Next)
}

func (h *Handlers) handlePreviousWinner(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, (*services.Session).Previous)
}

func (h *Handlers) navigate(w http.ResponseWriter, move func(*services.Session) bool) {
	session, err := h.Workspace.Session()
	if err != nil {
		respondError(w, err)
		return
	}

	moved := move(session)
	respondOK(w, NavigateResponse{Moved: moved, Snapshot: session.Snapshot()})
}

func (h *Handlers) handleResetLive(w http.ResponseWriter, r *http.Request) {
	session, err := h.Workspace.Session()
	if err != nil {
		respondError(w, err)
		return
	}

	if err := session.ResetLive(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session.Snapshot())
}

func (h *Handlers) handleLeaveLive(w http.ResponseWriter, r *http.Request) {
	h.Workspace.Leave(r.Context())
	respondOK(w, h.Workspace.State())
}
