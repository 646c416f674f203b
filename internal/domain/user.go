package domain

// UserRole enumerates dealership staff roles.
type UserRole string

const (
	RoleSales          UserRole = "sales"
	RoleAdministration UserRole = "administration"
	RoleWorkshop       UserRole = "workshop"
	RoleManager        UserRole = "manager"
)

// User is the authenticated dealership employee acting on deals.
type User struct {
	ID     string
	Name   string
	Email  string
	Role   UserRole
	Avatar string
}
