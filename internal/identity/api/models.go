package identityapi

import (
	"time"

	"storeadmin/internal/identity"
)

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Number   string `json:"number"`
	Password string `json:"password"`
	Status   string `json:"status"`
}

type updateAdminRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Number   *string `json:"number"`
	Password *string `json:"password"`
	Status   *string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type adminResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Number    string `json:"number"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type listResponse struct {
	Admins []adminResponse `json:"admins"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toAdminResponse(a identity.Account) adminResponse {
	return adminResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Number:    a.Number,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
