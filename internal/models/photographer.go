package models

// Photographer is a public profile owned by a photographer-role user.
type Photographer struct {
	ID           ID      `json:"id"`
	UserID       ID      `json:"user_id"`
	Name         string  `json:"name"`
	Bio          string  `json:"bio,omitempty"`
	Specialty    string  `json:"specialty,omitempty"`
	PricePerHour float64 `json:"price_per_hour"`
	Location     string  `json:"location,omitempty"`
	ProfileImage string  `json:"profile_image,omitempty"`
}

// ProfileUpdate is the form body for POST /edit_profile.
type ProfileUpdate struct {
	Name         string  `form:"name" validate:"required,max=120"`
	Specialty    string  `form:"specialty" validate:"max=120"`
	Location     string  `form:"location" validate:"max=120"`
	PricePerHour float64 `form:"price_per_hour" validate:"gt=0"`
	Bio          string  `form:"bio"`
}

// Apply copies the editable fields onto p.
func (u ProfileUpdate) Apply(p *Photographer) {
	p.Name = u.Name
	p.Specialty = u.Specialty
	p.Location = u.Location
	p.PricePerHour = u.PricePerHour
	p.Bio = u.Bio
}
