package profile

// Display fallbacks when neither the stored record nor the auth identity has a value.
const (
	DefaultPhotoURL    = "https://via.placeholder.com/150"
	DefaultDisplayName = "No Name"
	DefaultEmail       = "No Email"
)

// User is the identity asserted by the external auth provider.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// Record is the profile document stored for a User.
type Record struct {
	UID         string `json:"uid" db:"uid" validate:"required"`
	DisplayName string `json:"displayName" db:"display_name"`
	Email       string `json:"email" db:"email" validate:"omitempty,email"`
	PhotoURL    string `json:"photoURL" db:"photo_url" validate:"omitempty,url"`
}

// View is what the profile page displays.
type View struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	// Degraded is set when the stored record could not be fetched.
	Degraded bool `json:"degraded,omitempty"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Merge prefers stored record fields, then the auth identity, then display defaults.
func Merge(usr User, rec *Record) View {
	var r Record
	if rec != nil {
		r = *rec
	}
	return View{
		UID:         usr.UID,
		DisplayName: firstNonEmpty(r.DisplayName, usr.DisplayName, DefaultDisplayName),
		Email:       firstNonEmpty(r.Email, usr.Email, DefaultEmail),
		PhotoURL:    firstNonEmpty(r.PhotoURL, usr.PhotoURL, DefaultPhotoURL),
	}
}
