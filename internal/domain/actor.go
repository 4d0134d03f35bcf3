package domain

// Role роль, которую передает шлюз идентификации
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole возвращает роль; неизвестное или пустое значение трактуется как user
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleOwner:
		return RoleOwner
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Actor аутентифицированный инициатор операции
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanView может ли актор видеть бронирование: пользователь, владелец или администратор
func (a Actor) CanView(b *Booking) bool {
	return a.IsAdmin() || a.ID == b.UserID || a.ID == b.OwnerID
}
