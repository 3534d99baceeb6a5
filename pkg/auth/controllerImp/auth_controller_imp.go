package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/entities"
	accountRepo "agri/pkg/account/repository"
	"agri/pkg/apperr"
	"agri/pkg/auth/controller"
	"agri/pkg/middleware"
	"agri/pkg/response"
)

type authCtrl struct {
	users accountRepo.UserRepository
}

func NewAuthController(users accountRepo.UserRepository) controller.AuthController {
	return &authCtrl{users: users}
}

type identity struct {
	UID   string         `json:"uid"`
	Roles []string       `json:"roles"`
	User  *entities.User `json:"user"`
}

// WhoAmI echoes the verified identity and the matching user profile, if any.
func (h *authCtrl) WhoAmI(c echo.Context) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return apperr.Unauthorizedf("authentication required")
	}
	u, err := h.users.FindByUsername(c.Request().Context(), uid)
	if err != nil {
		return apperr.FromStore(err, "user")
	}
	roles := middleware.Roles(c)
	if roles == nil {
		roles = []string{}
	}
	return response.OK(c, identity{UID: uid, Roles: roles, User: u})
}
