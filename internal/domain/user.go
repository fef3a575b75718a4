package domain

import "time"

type User struct {
	ID                  int32  `json:"id"`
	Email               string `json:"email"`
	Nickname            string `json:"nickname"`
	FirstName           string `json:"first_name"`
	MiddleName          string `json:"middle_name,omitempty"`
	LastName            string `json:"last_name"`
	PhoneNumber         string `json:"phone_number"`
	IDCardNumber        string `json:"-"`
	DriverLicenseNumber string `json:"-"`
	PasswordHash        string `json:"-"`
	AvatarURL           string `json:"avatar_url,omitempty"`
	// DeviceToken is the FCM registration token, empty when the user has no
	// realtime channel.
	DeviceToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName joins the name parts, skipping empty ones.
func (u *User) FullName() string {
	name := u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
