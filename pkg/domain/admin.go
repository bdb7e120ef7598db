package domain

import (
	"fmt"
	"time"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

type AdminRole string

const (
	AdminRoleSuperAdmin       AdminRole = "super_admin"
	AdminRoleCatalogModerator AdminRole = "catalog_moderator"
	AdminRoleAdmin            AdminRole = "admin"
)

func AsAdminRole(s string) (AdminRole, error) {
	switch r := AdminRole(s); r {
	case AdminRoleSuperAdmin, AdminRoleCatalogModerator, AdminRoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf(
			"%w: role should be one of %s, %s, %s: %s", domerr.ErrBadInput,
			AdminRoleSuperAdmin, AdminRoleCatalogModerator, AdminRoleAdmin, s,
		)
	}
}

type AdminStatus string

const (
	AdminActive    AdminStatus = "active"
	AdminInactive  AdminStatus = "inactive"
	AdminSuspended AdminStatus = "suspended"
)

func AsAdminStatus(s string) (AdminStatus, error) {
	switch st := AdminStatus(s); st {
	case AdminActive, AdminInactive, AdminSuspended:
		return st, nil
	default:
		return "", fmt.Errorf(
			"%w: status should be one of %s, %s, %s: %s", domerr.ErrBadInput,
			AdminActive, AdminInactive, AdminSuspended, s,
		)
	}
}

// Permissions are capabilities granted to an admin in addition to its role.
type Permissions struct {
	ApproveCatalogRequests bool `json:"approve_catalog_requests"`
	ManageUsers            bool `json:"manage_users"`
	ManageAdmins           bool `json:"manage_admins"`
	ViewAnalytics          bool `json:"view_analytics"`
	ModerateContent        bool `json:"moderate_content"`
}

// DefaultPermissions returns permissions given to a newly created admin of the role.
func DefaultPermissions(role AdminRole) Permissions {
	switch role {
	case AdminRoleSuperAdmin:
		return Permissions{
			ApproveCatalogRequests: true,
			ManageUsers:            true,
			ManageAdmins:           true,
			ViewAnalytics:          true,
			ModerateContent:        true,
		}
	case AdminRoleCatalogModerator:
		return Permissions{
			ApproveCatalogRequests: true,
			ViewAnalytics:          true,
			ModerateContent:        true,
		}
	default:
		return Permissions{ViewAnalytics: true}
	}
}

type Admin struct {
	Id          int
	Name        string
	Phone       string
	Email       string
	Gender      Gender
	Password    string // bcrypt hash
	Role        AdminRole
	Permissions Permissions
	Status      AdminStatus

	RefreshToken *string
	LastLogin    *time.Time

	CreatedBy *int
	UpdatedBy *int

	// name of the admin in CreatedBy. empty when unknown.
	CreatorName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Admin) IsActive() bool {
	return a.Status == AdminActive
}

func (a Admin) IsSuperAdmin() bool {
	return a.Role == AdminRoleSuperAdmin
}

func (a Admin) CanApproveCatalogRequests() bool {
	return a.IsActive() && (a.Role == AdminRoleSuperAdmin ||
		a.Role == AdminRoleCatalogModerator ||
		a.Permissions.ApproveCatalogRequests)
}

func (a Admin) CanManageUsers() bool {
	return a.IsActive() && (a.Role == AdminRoleSuperAdmin || a.Permissions.ManageUsers)
}

func (a Admin) CanManageAdmins() bool {
	return a.IsActive() && (a.Role == AdminRoleSuperAdmin || a.Permissions.ManageAdmins)
}

func (a Admin) CanViewAnalytics() bool {
	return a.IsActive() && (a.Role == AdminRoleSuperAdmin || a.Permissions.ViewAnalytics)
}

func (a Admin) CanModerateContent() bool {
	return a.IsActive() && (a.Role == AdminRoleSuperAdmin ||
		a.Role == AdminRoleCatalogModerator ||
		a.Permissions.ModerateContent)
}

type AdminParam struct {
	Name     string
	Phone    string
	Email    string
	Gender   Gender
	Password string // bcrypt hash
	Role     AdminRole

	// nil for the first admin, created out of band.
	CreatedBy *int
}

// AdminCountFilter narrows Count. Zero fields are not applied.
type AdminCountFilter struct {
	Role   AdminRole
	Status AdminStatus
}
