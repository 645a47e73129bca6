package domain

type Role string

const (
	RoleTeamMember Role = "team_member"
	RoleLeader     Role = "leader"
	RoleDirector   Role = "director"
)

// Actor 是发起请求的用户，由认证服务签发的令牌解析得到
type Actor struct {
	UserID  string `json:"userID"`
	StoreID string `json:"storeID"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
}
