package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"brbshorts/catalog"
	"brbshorts/settings"
	"brbshorts/youtube"
)

// Messages shown to the user. The setup page displays them verbatim.
const (
	msgNotConfigured   = "Not configured. Visit /setup to configure."
	msgIncomplete      = "Missing API key or Channel ID"
	msgChannelNotFound = "Channel not found. Check your Channel ID."
	msgInvalidBody     = "Invalid request body"
)

// setupRequest is the body of POST /api/setup.
type setupRequest struct {
	APIKey     string `json:"apiKey"`
	ChannelID  string `json:"channelId"`
	FilterMode string `json:"filterMode"`
}

type setupResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleShorts serves the catalog. Failures are 500 with an error message.
func (s *Server) handleShorts(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Catalog(r.Context())
	if err != nil {
		if !errors.Is(err, catalog.ErrNotConfigured) {
			s.log.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Error("catalog read failed")
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: catalogMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSetup verifies and saves new settings. Validation failures are
// reported in the body with status 200 so the setup form can show them.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSetup(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, setupResponse{Error: msgInvalidBody})
		return
	}

	err = s.svc.Configure(r.Context(), settings.Settings{
		APIKey:     req.APIKey,
		ChannelID:  req.ChannelID,
		FilterMode: settings.FilterMode(req.FilterMode),
	})
	if err != nil {
		s.log.WithError(err).Warn("setup rejected")
		writeJSON(w, http.StatusOK, setupResponse{Error: setupMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, setupResponse{Success: true})
}

// decodeSetup accepts a JSON body or a urlencoded form.
func decodeSetup(w http.ResponseWriter, r *http.Request) (setupRequest, error) {
	var req setupRequest

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.APIKey = r.PostForm.Get("apiKey")
		req.ChannelID = r.PostForm.Get("channelId")
		req.FilterMode = r.PostForm.Get("filterMode")
		return req, nil
	}

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req)
	return req, err
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleClearConfig(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		s.log.WithError(err).Error("clear config failed")
		writeJSON(w, http.StatusInternalServerError, setupResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, setupResponse{Success: true})
}

func (s *Server) handleNetworkInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"localIP": s.opts.LocalIP()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// catalogMessage turns a catalog failure into the message shown by the
// player. Provider messages are surfaced as-is.
func catalogMessage(err error) string {
	if errors.Is(err, catalog.ErrNotConfigured) {
		return msgNotConfigured
	}
	var apiErr *youtube.APIError
	if errors.As(err, &apiErr) {
		return "YouTube API error: " + apiErr.Message
	}
	return err.Error()
}

// setupMessage turns a Configure failure into the setup form message.
func setupMessage(err error) string {
	var apiErr *youtube.APIError
	switch {
	case errors.Is(err, settings.ErrIncomplete):
		return msgIncomplete
	case errors.Is(err, youtube.ErrChannelNotFound):
		return msgChannelNotFound
	case errors.As(err, &apiErr):
		if apiErr.Code == 0 {
			return "Connection error: " + apiErr.Message
		}
		return "API Error: " + apiErr.Message
	}
	return "Connection error: " + err.Error()
}
