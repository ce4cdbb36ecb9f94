package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email"`
	Password            string         `json:"-"`
	SocialLogin         bool           `json:"socialLogin"`
	SocialProvider      string         `json:"socialProvider"`
	AvatarURL           string         `json:"avatarURL"`
	Headline            string         `json:"headline"`
	Bio                 string         `json:"bio"`
	Location            string         `json:"location"`
	Skills              datatypes.JSON `json:"skills"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`

	// Identity verification. IsVerified is only ever set to true, either by an
	// automatic document check pass or by a moderator approving a
	// VerificationRequest. Nothing in this codebase resets it to false.
	IsVerified           *bool      `json:"isVerified"`
	VerificationDate     *time.Time `json:"verificationDate"`
	VerificationDocument string     `json:"verificationDocument"`

	JobPosts []JobPost `json:"jobPosts,omitempty" gorm:"foreignKey:EmployerID;references:ID"`
	Role     string    `json:"role" gorm:"type:varchar(20);default:user;index"` // user, employer, admin, super_admin
}

// FullName is the on-file name the document validator checks against.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Custom JSON marshaling so JSON columns come out as arrays, not raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Skills     []string `json:"skills,omitempty"`
		PushTokens []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		Skills:     []string{},
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.Skills != nil {
		var skills []string
		if err := json.Unmarshal(u.Skills, &skills); err == nil {
			aux.Skills = skills
		}
	}

	if u.PushTokens != nil {
		var pushTokens []string
		if err := json.Unmarshal(u.PushTokens, &pushTokens); err == nil {
			aux.PushTokens = pushTokens
		}
	}

	// JobPosts excluded to prevent circular reference
	aux.Alias.JobPosts = nil

	return json.Marshal(aux)
}
