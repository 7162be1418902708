package users

import "time"

type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Lang       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Telegram — профиль из апдейта, как его отдаёт Bot API.
type Telegram struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Lang      string
}
