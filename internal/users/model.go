package users

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Picture         string    `json:"picture"`
	Provider        string    `json:"provider"`
	ProviderSubject string    `json:"providerSubject"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
