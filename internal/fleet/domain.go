package fleet

// Fleet groups equipment units under a display name.
type Fleet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Equipment is a single machine identified by its internal code. FleetID is
// nil when the unit is unassigned.
type Equipment struct {
	Code    string  `json:"code"`
	Plate   string  `json:"plate"`
	FleetID *string `json:"fleet_id"`
}
