package model

// Roles recognized by the API. Admins implicitly hold the user role as well.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User backs token issuance for the API. Password holds a bcrypt hash.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"type:varchar(20);not null;default:user"`
	Timestamps
}

// Roles returns the role claims carried by tokens issued for this user.
func (u *User) Roles() []string {
	if u.Role == RoleAdmin {
		return []string{RoleAdmin, RoleUser}
	}
	return []string{RoleUser}
}
