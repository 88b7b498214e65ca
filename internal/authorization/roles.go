package authorization

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleSupport  UserRole = "SUPPORT"
	RoleCustomer UserRole = "CUSTOMER"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleCustomer:
		return true
	default:
		return false
	}
}

func (r UserRole) Value() (driver.Value, error) {
	if r == "" {
		return string(RoleCustomer), nil
	}
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid user role: %q", r)
	}
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	if value == nil {
		*r = RoleCustomer
		return nil
	}

	raw, err := scanString(value)
	if err != nil {
		return fmt.Errorf("unsupported type for UserRole: %w", err)
	}
	role, ok := ParseUserRole(raw)
	if !ok {
		return fmt.Errorf("invalid user role: %q", raw)
	}
	*r = role
	return nil
}

type Permission string

const (
	PermissionManageUsers      Permission = "manage_users"
	PermissionViewUsers        Permission = "view_users"
	PermissionManageSettings   Permission = "manage_settings"
	PermissionManageOwnContent Permission = "manage_own_content"
)

// Permissions lists what role may do. The switch is exhaustive over the
// closed role set; an unknown role gets nothing.
func Permissions(role UserRole) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{PermissionManageUsers, PermissionViewUsers, PermissionManageSettings, PermissionManageOwnContent}
	case RoleSupport:
		return []Permission{PermissionViewUsers, PermissionManageOwnContent}
	case RoleCustomer:
		return []Permission{PermissionManageOwnContent}
	default:
		return nil
	}
}

func RoleHasPermission(role UserRole, permission Permission) bool {
	for _, p := range Permissions(role) {
		if p == permission {
			return true
		}
	}
	return false
}

// ParseUserRole accepts the role in any case, e.g. "admin" or "ADMIN".
func ParseUserRole(value interface{}) (UserRole, bool) {
	switch v := value.(type) {
	case UserRole:
		return v, v.IsValid()
	case string, []byte:
		raw, _ := scanString(v)
		role := UserRole(strings.ToUpper(strings.TrimSpace(raw)))
		if !role.IsValid() {
			return "", false
		}
		return role, true
	default:
		return "", false
	}
}

func ValidRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleSupport, RoleCustomer}
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%T", value)
	}
}
