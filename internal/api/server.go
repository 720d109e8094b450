package api

import (
	"net/http"

	"github.com/tokengate/tokengate/internal/api/middleware"
	"github.com/tokengate/tokengate/internal/audit"
	"github.com/tokengate/tokengate/internal/core"
	"github.com/tokengate/tokengate/internal/identity"
	"github.com/tokengate/tokengate/internal/service"
	"github.com/tokengate/tokengate/internal/tasks"
)

type Server struct {
	verifier      core.Verifier
	allowList     *identity.SubjectAllowList
	accessService *service.AccessService
	auditor       core.Auditor
	tokenStore    core.TokenStore
	taskManager   *tasks.Manager
}

func NewServer(
	verifier core.Verifier,
	allowList *identity.SubjectAllowList,
	gateway core.AppGateway,
	auditor core.Auditor,
	tokenStore core.TokenStore,
	taskManager *tasks.Manager,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	svc := service.NewAccessService(gateway, auditor, tokenStore)

	return &Server{
		verifier:      verifier,
		allowList:     allowList,
		accessService: svc,
		auditor:       auditor,
		tokenStore:    tokenStore,
		taskManager:   taskManager,
	}
}

func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+InfoRoute, s.handleInfo)

	// token issuance
	mux.HandleFunc("POST "+AccessTokensRoute, s.handleAccessTokens)
	mux.HandleFunc(AccessTokensRoute, s.handleMethodNotAllowed)

	// admin routes, only mounted when a signing key is configured
	if len(adminSigningKey) > 0 {
		adminMux := http.NewServeMux()
		adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudits)
		adminMux.HandleFunc("GET "+ListActiveTokensRoute, s.handleAdminTokens)
		if s.taskManager != nil {
			adminMux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
			adminMux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
			adminMux.HandleFunc("GET "+LogsForTaskRoute, s.handleLogsForTask)
		}
		mux.Handle(AdminParent, middleware.AdminAuth(adminSigningKey)(adminMux))
	}

	// everything else is a structured 404
	mux.HandleFunc("/", s.handleNotFound)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
