package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/forecast/controller"
	"agri/pkg/forecast/service"
	"agri/pkg/response"
)

type modelCtrl struct{ s service.ModelService }

func NewModelController(s service.ModelService) controller.ModelController { return &modelCtrl{s: s} }

func (h *modelCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *modelCtrl) Get(c echo.Context) error {
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

func (h *modelCtrl) Create(c echo.Context) error {
	var req service.ModelRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *modelCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.ModelRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *modelCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}
