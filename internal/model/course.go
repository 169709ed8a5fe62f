package model

// Course is one selectable course together with the finite set of weekly
// slots at which a session of it could be attended. Courses are built once
// per solve call from the request and never mutated during search.
type Course struct {
	Name           string     `json:"name" mapstructure:"name"`
	AvailableSlots []TimeSlot `json:"availableSlots" mapstructure:"availableSlots"`
}
