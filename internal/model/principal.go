package model

// Principal is the authenticated session identity carried through request
// context. DriverID is set only for driver-role logins and may be empty when
// the login record has no matching driver.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	DriverID string `json:"driverId,omitempty"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsDriver() bool {
	return p.Role == RoleDriver
}

// OwnsTrip reports whether a driver principal may see the given trip. The
// join is tolerant: trips recorded against either the driver id or the login
// username both count as the driver's own.
func (p Principal) OwnsTrip(t Trip) bool {
	if p.IsAdmin() {
		return true
	}
	if p.DriverID != "" && t.DriverID == p.DriverID {
		return true
	}
	return t.DriverID == p.Username
}
