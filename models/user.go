package models

// UserRole — роль принципала из внешнего сервиса идентификации.
// Сервис доверяет роли из JWT и сам пользователей не ведёт.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
	RoleCaptain    UserRole = "captain"
)

// Principal — аутентифицированный вызывающий.
type Principal struct {
	UserID int      `json:"user_id"`
	Role   UserRole `json:"role"`
}

// IsAdmin сообщает, обладает ли принципал административными правами.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}
