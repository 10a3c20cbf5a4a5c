package domain

// User is the durable identity record. The durable store owns it; cache
// entries are disposable copies.
type User struct {
	ID           string
	Mail         string
	Name         string
	PasswordHash string
	Verified     bool
}
