package models

// Profile is the backend's record of a user.
type Profile struct {
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Postal   string `json:"postal"`
}

// ProfileUpdateRequest carries the editable profile fields.
type ProfileUpdateRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Postal   string `json:"postal"`
}

// Address returns the profile's street address as a booking address.
func (p *Profile) Address() Address {
	return Address{
		Street:   p.Street,
		City:     p.City,
		Province: p.Province,
		Postal:   p.Postal,
	}
}
