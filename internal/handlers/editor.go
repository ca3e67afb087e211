package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/abrezinsky/raffledraw/internal/services"
	"github.com/abrezinsky/raffledraw/pkg/rosterfeed"
)

func (h *Handlers) handleGetEditor(w http.ResponseWriter, r *http.Request) {
	editor, err := h.Workspace.Editor()
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, editor.State())
}

func (h *Handlers) handleUpdateEditor(w http.ResponseWriter, r *http.Request) {
	editor, err := h.Workspace.Editor()
	if err != nil {
		respondError(w, err)
		return
	}

	var req EditorUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Title != nil {
		editor.SetTitle(*req.Title)
	}
	if req.Config != nil {
		if err := editor.SetConfig(*req.Config); err != nil {
			respondError(w, err)
			return
		}
	}
	respondOK(w, editor.State())
}

// handleImportRoster merges an uploaded file, a text/plain body or a JSON
// {"text": ...} body into the open roster
func (h *Handlers) handleImportRoster(w http.ResponseWriter, r *http.Request) {
	text, err := readRosterText(r)
	if err != nil {
		respondError(w, err)
		return
	}

	count, err := h.Workspace.ImportText(text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RosterCountResponse{Count: count})
}

func (h *Handlers) handleImportRosterURL(w http.ResponseWriter, r *http.Request) {
	var req RosterURLRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := rosterfeed.ValidateURL(req.URL); err != nil {
		respondError(w, services.ErrInvalidRosterURL)
		return
	}
	if _, err := h.Workspace.Editor(); err != nil {
		respondError(w, err)
		return
	}

	names, err := h.Roster.FetchRoster(r.Context(), req.URL)
	if err != nil {
		respondError(w, NewAPIError(http.StatusBadGateway, ErrCodeUpstream, "Could not fetch roster: "+err.Error()))
		return
	}

	count, err := h.Workspace.ImportNames(names)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RosterCountResponse{Count: count})
}

func (h *Handlers) handleEditList(w http.ResponseWriter, r *http.Request) {
	editor, err := h.Workspace.Editor()
	if err != nil {
		respondError(w, err)
		return
	}

	var req RosterTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RosterCountResponse{Count: editor.EditList(req.Text)})
}

func (h *Handlers) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		respondError(w, err)
		return
	}
	editor, err := h.Workspace.Editor()
	if err != nil {
		respondError(w, err)
		return
	}

	if !editor.RemoveParticipant(name) {
		respondError(w, NotFound("Participant not found"))
		return
	}
	respondOK(w, editor.State())
}

func (h *Handlers) handleClearRoster(w http.ResponseWriter, r *http.Request) {
	editor, err := h.Workspace.Editor()
	if err != nil {
		respondError(w, err)
		return
	}

	editor.Clear()
	respondOK(w, editor.State())
}

// readRosterText extracts roster text from a multipart upload, a plain body or JSON
func readRosterText(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(rosterfeed.MaxFeedSize); err != nil {
			return "", BadRequest("Invalid upload: " + err.Error())
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", BadRequest("Missing file field")
		}
		defer file.Close()
		return readLimited(file)

	case strings.HasPrefix(contentType, "text/plain"):
		return readLimited(r.Body)

	default:
		var req RosterTextRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
		return req.Text, nil
	}
}

func readLimited(reader io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(reader, rosterfeed.MaxFeedSize+1))
	if err != nil {
		return "", BadRequest("Could not read roster")
	}
	if len(data) > rosterfeed.MaxFeedSize {
		return "", BadRequest("Roster is too large")
	}
	return string(data), nil
}
