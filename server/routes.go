package server

func (s *Server) initRoutes() {
	// HOME & WORKSPACE
	s.RegisterRouteHandler("GET "+RouteHome+"{$}", ChainMiddleware(s.HomeHandler(), s.HTMLMiddleWare(s.GuardMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteWorkspace, ChainMiddleware(s.WorkspaceHandler(), s.HTMLMiddleWare(s.GuardMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteWorkspace+"/", ChainMiddleware(s.WorkspaceHandler(), s.HTMLMiddleWare(s.GuardMiddleware)...))

	// SIGN-IN FLOW
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleWare(s.PageRateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAuthCallback, ChainMiddleware(s.AuthCallbackHandler(), s.HTMLMiddleWare(s.PageRateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteSessionReset, ChainMiddleware(s.SessionResetHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignOut, ChainMiddleware(s.SignOutHandler(), s.HTMLMiddleWare()...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPIAuthConfig, ChainMiddleware(s.AuthConfigHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPIAuthConfig, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIAuthExchange, ChainMiddleware(s.AuthExchangeHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPIAuthExchange, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("/", ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
}
