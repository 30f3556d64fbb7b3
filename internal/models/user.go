package models

// UserRef references a user owned by the external identity provider.
type UserRef struct {
	ID int64
}
