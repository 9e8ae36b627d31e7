// Package ui serves the browser-based assistant shell: a single themed page
// that talks to the daemon over the session WebSocket.
package ui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dmaceachern/jarvis-api/internal/config"
	"github.com/gin-gonic/gin"
)

//go:embed shell.html
var shellFS embed.FS

// Theme is a named color palette for the shell.
type Theme struct {
	Name          string
	BgDark        string
	BgMedium      string
	BgLight       string
	Accent        string
	TextPrimary   string
	TextSecondary string
	Error         string
	Listening     string
	Thinking      string
	Speaking      string
}

// themes holds the built-in shell palettes.
var themes = map[string]Theme{
	"arc-reactor": {
		Name:          "arc-reactor",
		BgDark:        "#0a192f",
		BgMedium:      "#112240",
		BgLight:       "#233554",
		Accent:        "#64ffda",
		TextPrimary:   "#e6f1ff",
		TextSecondary: "#8892b0",
		Error:         "#ff5c79",
		Listening:     "#ff5c79",
		Thinking:      "#a882ff",
		Speaking:      "#00ff88",
	},
	"mark-ii": {
		Name:          "mark-ii",
		BgDark:        "#1a0f0f",
		BgMedium:      "#2b1a14",
		BgLight:       "#40241a",
		Accent:        "#ffd166",
		TextPrimary:   "#fff3e0",
		TextSecondary: "#b08968",
		Error:         "#ff5c79",
		Listening:     "#ff5c79",
		Thinking:      "#a882ff",
		Speaking:      "#ffd166",
	},
}

// ShellHandler serves the assistant shell page.
type ShellHandler struct {
	Cfg  *config.Config
	tmpl *template.Template
}

// NewShellHandler parses the embedded shell template.
func NewShellHandler(cfg *config.Config) (*ShellHandler, error) {
	tmpl, err := template.ParseFS(shellFS, "shell.html")
	if err != nil {
		return nil, err
	}
	return &ShellHandler{Cfg: cfg, tmpl: tmpl}, nil
}

// ThemeByName returns the named theme, falling back to arc-reactor.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["arc-reactor"]
}

// Serve renders the shell page with the configured theme.
func (h *ShellHandler) Serve(c *gin.Context) {
	theme := ThemeByName(h.Cfg.EnvVars.Theme)
	if override := c.Query("theme"); override != "" {
		theme = ThemeByName(override)
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(c.Writer, gin.H{
		"Theme":        theme,
		"AudioEnabled": h.Cfg.EnvVars.AudioEnabled,
	}); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
