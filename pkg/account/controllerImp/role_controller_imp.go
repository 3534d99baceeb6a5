package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/account/controller"
	"agri/pkg/account/service"
	"agri/pkg/response"
)

type roleCtrl struct{ s service.RoleService }

func NewRoleController(s service.RoleService) controller.RoleController { return &roleCtrl{s: s} }

func (h *roleCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *roleCtrl) Get(c echo.Context) error {
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

func (h *roleCtrl) Create(c echo.Context) error {
	var req service.RoleRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *roleCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *roleCtrl) Permissions(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Permissions(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *roleCtrl) Grant(c echo.Context) error {
	roleID, permID, err := pair(c, "id", "permission_id")
	if err != nil {
		return err
	}
	if err := h.s.Grant(c.Request().Context(), roleID, permID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *roleCtrl) Revoke(c echo.Context) error {
	roleID, permID, err := pair(c, "id", "permission_id")
	if err != nil {
		return err
	}
	if err := h.s.Revoke(c.Request().Context(), roleID, permID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

type permissionCtrl struct{ s service.PermissionService }

func NewPermissionController(s service.PermissionService) controller.PermissionController {
	return &permissionCtrl{s: s}
}

func (h *permissionCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *permissionCtrl) Create(c echo.Context) error {
	var req service.PermissionRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}
