package domain

// Scope is the tenant filter threaded through every store operation.
// Admins operate unrestricted; everyone else only ever sees rows whose
// tenant_id equals their own account ID. Enforced at the store boundary
// so no caller can forget it.
type Scope struct {
	TenantID     int64
	Unrestricted bool
}

func ScopeFor(userID int64, role Role) Scope {
	return Scope{
		TenantID:     userID,
		Unrestricted: role == RoleAdmin,
	}
}

// Allows reports whether a row with the given tenant owner is visible
// under this scope.
func (s Scope) Allows(tenantID int64) bool {
	return s.Unrestricted || s.TenantID == tenantID
}
