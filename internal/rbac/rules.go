package rbac

const (
	PermImportRun    = "import:run"
	PermQuizView     = "quiz:view"
	PermErrorsDelete = "errors:delete"
	PermQuizDelete   = "quiz:delete"
)

const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// AllPermissions is every permission a route can require.
var AllPermissions = []string{PermQuizView, PermImportRun, PermErrorsDelete, PermQuizDelete}

// RolePermissions is the default policy. Patterns ending in "*" match by prefix.
var RolePermissions = map[string][]string{
	RoleViewer:   {PermQuizView},
	RoleOperator: {PermImportRun, PermErrorsDelete},
	RoleAdmin:    {"*"},
}

// Inherits lists, per role, the roles whose grants it also holds.
var Inherits = map[string][]string{
	RoleOperator: {RoleViewer},
	RoleAdmin:    {RoleOperator},
}
