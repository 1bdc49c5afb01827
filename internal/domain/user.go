package domain

type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	PasswordHash string
}
