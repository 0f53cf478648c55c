package models

// SolarGrid is a managed grid owned by a user.
type SolarGrid struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name" binding:"required,min=3,max=500"`
	Age         int     `json:"age"`
	PowerOutput float64 `json:"powerOutput"`
	Description string  `json:"description,omitempty" binding:"omitempty,min=3,max=50"`
}

// SimulationLoad is one entry of a bulk simulator load.
type SimulationLoad struct {
	Name string `json:"name" binding:"required"`
	Age  int    `json:"age" binding:"min=0"`
}
