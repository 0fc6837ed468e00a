package models

// Portal is an entry point of the mobile app; each serves a different audience.
type Portal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var portals = []Portal{
	{ID: "service-partner", Name: "Service Partner", Description: "Service calls, statistics and reports for XRGI systems in your care"},
	{ID: "installer", Name: "Installer", Description: "Register newly installed XRGI systems"},
	{ID: "customer", Name: "Customer", Description: "Status of your own XRGI systems"},
}

// Portals returns the selectable portals.
func Portals() []Portal {
	out := make([]Portal, len(portals))
	copy(out, portals)
	return out
}

// ValidPortal reports whether id names a known portal.
func ValidPortal(id string) bool {
	for _, p := range portals {
		if p.ID == id {
			return true
		}
	}
	return false
}
