package server

import "github.com/jrsteele09/go-issue-workspace/session"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Web Routes
	RouteHome         = session.HomePath
	RouteWorkspace    = session.WorkspacePath
	RouteAuthLogin    = "/auth/login"
	RouteAuthCallback = session.CallbackPath
	RouteSessionReset = session.SessionResetPath
	RouteSignOut      = "/auth/signout"

	// API Routes
	RouteAPIAuthConfig   = "/api/auth/config"
	RouteAPIAuthExchange = "/api/auth/exchange"
)
