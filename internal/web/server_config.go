package web

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - dashboard: :8080
// - simulator: :8090
type ServerConfig struct {
	ListenAddr string
	DevMode    bool

	// StaticDir, when set to an existing directory, is served at "/" in
	// place of the embedded dashboard page.
	StaticDir string

	// AuthUser and AuthHash enable HTTP basic auth on every route except
	// /healthz. AuthHash is a bcrypt hash.
	AuthUser string
	AuthHash string
}

// AuthEnabled reports whether both halves of the credentials are set.
func (c ServerConfig) AuthEnabled() bool {
	return c.AuthUser != "" && c.AuthHash != ""
}
