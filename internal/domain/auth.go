package domain

// RolePrefix is prepended to a user type to form the granted role.
const RolePrefix = "ROLE_"

// RoleFor returns the single role granted to a user type.
func RoleFor(t UserType) string {
	return RolePrefix + string(t)
}
