package api

const (
	HealthCheckRoute = "/healthz"
	InfoRoute        = "/v1/info"

	AccessTokensRoute = "/v1/access_tokens"

	AdminParent           = "/v1/admin/"
	ListAuditsRoute       = AdminParent + "audits"
	ListActiveTokensRoute = AdminParent + "tokens"

	ListTasksRoute   = AdminParent + "tasks"
	TriggerTaskRoute = AdminParent + "tasks/{name}/trigger"
	LogsForTaskRoute = AdminParent + "tasks/{name}/logs"
)
