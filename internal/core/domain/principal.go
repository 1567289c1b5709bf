package domain

import (
	"errors"
	"time"
)

// StudentStatus enumerates the account states a student record can be in.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusLeft      StudentStatus = "left"
)

// ErrAccountSuspended indicates the credential is valid but the account is administratively locked.
var ErrAccountSuspended = errors.New("account is suspended")

// Principal is an authenticatable identity, either an admin or a student row.
type Principal struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Status       StudentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Profile is the public view of a principal returned by auth endpoints.
// The password hash never leaves the repository layer through this type.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile strips a principal down to its public fields.
func (p Principal) Profile() Profile {
	return Profile{ID: p.ID, Name: p.Name, Email: p.Email}
}

// PrincipalKind parametrizes the auth stack over the admin and student
// flavours: table names, cookie names, the JWT role tag, and an optional
// account-status gate. Admins carry no status column and no gate.
type PrincipalKind struct {
	Name          string
	Table         string
	RefreshTable  string
	OTPTable      string
	RefTokenIDCol string
	AccessCookie  string
	RefreshCookie string
	HasStatus     bool
	Gate          func(Principal) error
}

var (
	// KindAdmin binds the auth flows to the admin tables and cookies.
	KindAdmin = PrincipalKind{
		Name:          "admin",
		Table:         "admins",
		RefreshTable:  "refresh_tokens",
		OTPTable:      "admin_otps",
		RefTokenIDCol: "admin_id",
		AccessCookie:  "admin_access_token",
		RefreshCookie: "admin_refresh_token",
	}

	// KindStudent binds the auth flows to the student tables and cookies.
	// Suspended students are rejected even with otherwise valid tokens.
	KindStudent = PrincipalKind{
		Name:          "student",
		Table:         "students",
		RefreshTable:  "student_refresh_tokens",
		OTPTable:      "student_otps",
		RefTokenIDCol: "student_id",
		AccessCookie:  "student_access_token",
		RefreshCookie: "student_refresh_token",
		HasStatus:     true,
		Gate: func(p Principal) error {
			if p.Status == StudentStatusSuspended {
				return ErrAccountSuspended
			}
			return nil
		},
	}
)

// CheckGate applies the kind's status gate when one is configured.
func (k PrincipalKind) CheckGate(p Principal) error {
	if k.Gate == nil {
		return nil
	}
	return k.Gate(p)
}
