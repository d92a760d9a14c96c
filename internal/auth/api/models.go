package authapi

import "storeadmin/internal/identity"

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type adminResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Number string `json:"number"`
	Status string `json:"status"`
}

type loginResponse struct {
	AccessToken string        `json:"accessToken"`
	ExpiresAt   string        `json:"expiresAt"`
	Admin       adminResponse `json:"admin"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
	Rotated     bool   `json:"rotated"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toAdminResponse(a identity.Account) adminResponse {
	return adminResponse{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Number: a.Number,
		Status: string(a.Status),
	}
}
