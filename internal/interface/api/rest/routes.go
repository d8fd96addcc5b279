package rest

const (
	// auth
	RouteLogin = "/login/token"

	// users
	RouteUser           = "/user/"
	RouteAdminPrivilege = RouteUser + "admin_privilege/"

	// ops
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
