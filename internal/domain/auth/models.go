package auth

import "time"

// User never carries the password hash across the API boundary.
type User struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"companyId"`
	Username  string     `json:"username"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type Credentials struct {
	ID           string
	CompanyID    string
	Role         string
	PasswordHash string
	MFAEnabled   bool
	MFASecretEnc []byte
}
