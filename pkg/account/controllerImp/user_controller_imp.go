package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/account/controller"
	"agri/pkg/account/service"
	"agri/pkg/response"
)

type userCtrl struct{ s service.UserService }

func NewUserController(s service.UserService) controller.UserController { return &userCtrl{s: s} }

func (h *userCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *userCtrl) Get(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *userCtrl) Create(c echo.Context) error {
	var req service.UserRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *userCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.UserRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *userCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *userCtrl) Roles(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Roles(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *userCtrl) AssignRole(c echo.Context) error {
	userID, roleID, err := pair(c, "id", "role_id")
	if err != nil {
		return err
	}
	if err := h.s.AssignRole(c.Request().Context(), userID, roleID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *userCtrl) RevokeRole(c echo.Context) error {
	userID, roleID, err := pair(c, "id", "role_id")
	if err != nil {
		return err
	}
	if err := h.s.RevokeRole(c.Request().Context(), userID, roleID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func pair(c echo.Context, a, b string) (uint, uint, error) {
	x, err := response.ParamID(c, a)
	if err != nil {
		return 0, 0, err
	}
	y, err := response.ParamID(c, b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
