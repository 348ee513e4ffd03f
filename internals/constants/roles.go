package constants

// Firm membership roles.
const (
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
	RoleSecretary  = "secretary"
)

var StaffRoles = []string{RoleOwner, RoleAccountant, RoleSecretary}
