package credentials

import "time"

type Credential struct {
	UserID       string
	PasswordHash string
	HashVersion  string
	UpdatedAt    time.Time
}
