package model

// リクエスト単位の認証済みID（トークンから復元）
type Principal struct {
	UserID       int64
	Email        string
	Role         Role
	TokenVersion int
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
