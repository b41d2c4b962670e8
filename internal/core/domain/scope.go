package domain

// Scope is the data-visibility restriction derived from a requester's role.
// It is intersected with every voter read, export, and aggregate query and is
// never overridable by caller-supplied filters.
type Scope struct {
	// AdminID, when non-empty, restricts results to voters owned by this admin.
	AdminID string
	// AssignedTo, when non-empty, restricts results to voters assigned to this
	// karyakarta.
	AssignedTo string
}

// Unrestricted reports whether the scope imposes no predicate (super admin).
func (s Scope) Unrestricted() bool {
	return s.AdminID == "" && s.AssignedTo == ""
}

// VisibilityScope derives the scope for a requester:
//
//	super_admin  → unrestricted
//	admin        → admin_id == self
//	karyakarta   → assigned_to == self
func VisibilityScope(claims Claims) Scope {
	switch claims.Role {
	case RoleAdmin:
		return Scope{AdminID: claims.UserID}
	case RoleKaryakarta:
		return Scope{AssignedTo: claims.UserID}
	default:
		return Scope{}
	}
}
