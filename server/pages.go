package server

import (
	"bytes"
	"net/http"

	"brbshorts/settings"
)

// pageData is the template context shared by every page.
type pageData struct {
	Title string

	// Settings switches the setup page into its settings variant: back link
	// and a button that clears the configuration.
	Settings   bool
	ChannelID  string
	FilterMode settings.FilterMode

	Port       string
	LocalIP    string
	CacheTTL   string
	PollMillis int64
}

func (s *Server) pageData(title string) pageData {
	return pageData{
		Title:      title,
		FilterMode: settings.FilterHashtag,
		Port:       s.opts.Port,
		CacheTTL:   s.svc.Cache().TTL().String(),
		PollMillis: s.opts.PollInterval.Milliseconds(),
	}
}

// render executes a page into a buffer first so template errors become a 500
// instead of a truncated page.
func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.WithError(err).WithField("page", name).Error("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// configured reports whether settings are saved. A store error counts as
// unconfigured so the user lands on the setup page.
func (s *Server) configured(r *http.Request) bool {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("load settings failed")
		return false
	}
	return st.Configured
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.configured(r) {
		http.Redirect(w, r, "/player", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/setup", http.StatusFound)
}

func (s *Server) handleSetupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "setup.html", s.pageData("OBS BRB Shorts - Setup"))
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	data := s.pageData("OBS BRB Shorts - Settings")
	data.Settings = true

	st, err := s.svc.Status(r.Context())
	if err == nil {
		data.ChannelID = st.ChannelID
		data.FilterMode = st.FilterMode
	}
	s.render(w, "setup.html", data)
}

func (s *Server) handleGuidePage(w http.ResponseWriter, r *http.Request) {
	data := s.pageData("OBS BRB Shorts - OBS Setup Guide")
	data.LocalIP = s.opts.LocalIP()
	s.render(w, "guide.html", data)
}

func (s *Server) handlePlayerPage(w http.ResponseWriter, r *http.Request) {
	if !s.configured(r) {
		http.Redirect(w, r, "/setup", http.StatusFound)
		return
	}
	s.render(w, "player.html", s.pageData("BRB Shorts"))
}
