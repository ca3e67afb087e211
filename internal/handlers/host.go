package handlers

import (
	"fmt"
	"net/http"

	"github.com/abrezinsky/raffledraw/internal/errors"
	"github.com/abrezinsky/raffledraw/internal/services"
)

// ==================== Pages ====================

func (h *Handlers) handleDisplay(w http.ResponseWriter, r *http.Request) {
	h.templates.Display.Execute(w, HostPageData{Title: "Raffle"})
}

func (h *Handlers) handleHostConsole(w http.ResponseWriter, r *http.Request) {
	h.templates.Host.ExecuteTemplate(w, "host", HostPageData{Title: "Raffle Host"})
}

// ==================== Raffles ====================

func (h *Handlers) handleListRaffles(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RaffleListResponse{
		Raffles:   h.Raffles.List(),
		Workspace: h.Workspace.State(),
	})
}

func (h *Handlers) handleCreateRaffle(w http.ResponseWriter, r *http.Request) {
	respondCreated(w, h.Workspace.Create(r.Context()))
}

func (h *Handlers) handleGetRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	raffle, ok := h.Raffles.Get(id)
	if !ok {
		respondError(w, services.ErrRaffleNotFound)
		return
	}
	respondOK(w, raffle)
}

func (h *Handlers) handleUpdateRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req RaffleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	// The open working copy would overwrite a direct update on its next save
	if editor, err := h.Workspace.Editor(); err == nil && editor.ID() == id {
		respondError(w, Conflict("Raffle is open in the editor"))
		return
	}

	raffle, ok := h.Raffles.Update(r.Context(), id, services.RaffleUpdate{
		Title:        req.Title,
		Participants: req.Participants,
		Config:       req.Config,
	})
	if !ok {
		respondError(w, services.ErrRaffleNotFound)
		return
	}
	respondOK(w, raffle)
}

func (h *Handlers) handleDeleteRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	raffle, ok := h.Raffles.Get(id)
	if !ok {
		respondError(w, services.ErrRaffleNotFound)
		return
	}
	if !confirmed(r) {
		respondError(w, errors.ConfirmationRequired("Delete raffle?",
			fmt.Sprintf(`"%s" and its results will be permanently deleted.`, raffle.Title)))
		return
	}

	result, err := h.Workspace.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, DeleteResponse{DeleteResult: result, Workspace: h.Workspace.State()})
}

func (h *Handlers) handleDuplicateRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	raffle, err := h.Workspace.Duplicate(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, raffle)
}

func (h *Handlers) handleResetRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	raffle, ok := h.Raffles.Get(id)
	if !ok {
		respondError(w, services.ErrRaffleNotFound)
		return
	}
	if !confirmed(r) {
		respondError(w, errors.ConfirmationRequired("Reset raffle?",
			fmt.Sprintf(`The results of "%s" will be cleared so it can be drawn again.`, raffle.Title)))
		return
	}

	if err := h.Workspace.Reset(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	raffle, _ = h.Raffles.Get(id)
	respondOK(w, raffle)
}

func (h *Handlers) handleOpenRaffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	editor, err := h.Workspace.Open(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, editor.State())
}

func (h *Handlers) handleGoLive(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	session, err := h.Workspace.GoLive(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, session.Snapshot())
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	soundEnabled, _ := h.Settings.IsSoundEnabled(ctx)
	baseURL, _ := h.Settings.GetBaseURL(ctx)
	displayURL, _ := h.Settings.DisplayURL(ctx, requestBaseURL(r))

	respondOK(w, SettingsResponse{
		SoundEnabled: soundEnabled,
		BaseURL:      baseURL,
		DisplayURL:   displayURL,
	})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	settings := services.Settings{
		SoundEnabled: req.SoundEnabled,
		BaseURL:      req.BaseURL,
	}
	if err := h.Settings.UpdateSettings(r.Context(), settings); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Settings updated")
}

// requestBaseURL reconstructs the address the client used to reach the server
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
