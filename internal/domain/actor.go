package domain

// Actor is the caller principal supplied by the identity layer. This core only
// consults it for the night-audit override gate.
type Actor struct {
	ID       int32    `json:"id"`
	TenantID int32    `json:"tenant_id"`
	HotelIDs []int32  `json:"hotel_ids,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

const (
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleSuperAdmin = "superadmin"
	RoleFrontDesk  = "front_desk"
)

func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanOverrideClosedDay reports whether the actor may write to a closed
// business date when explicitly requesting an override.
func (a *Actor) CanOverrideClosedDay() bool {
	return a.HasRole(RoleOwner) || a.HasRole(RoleManager) || a.HasRole(RoleSuperAdmin)
}
