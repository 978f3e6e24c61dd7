package domain

type PrivilegeStatus string

const (
	PrivilegeStatusBronze PrivilegeStatus = "BRONZE"
	PrivilegeStatusSilver PrivilegeStatus = "SILVER"
	PrivilegeStatusGold   PrivilegeStatus = "GOLD"
)

func (s PrivilegeStatus) Valid() bool {
	switch s {
	case PrivilegeStatusBronze, PrivilegeStatusSilver, PrivilegeStatusGold:
		return true
	}
	return false
}

type Privilege struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Status   PrivilegeStatus `json:"status"`
	Balance  int64           `json:"balance"`
}
