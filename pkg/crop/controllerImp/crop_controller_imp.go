package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/crop/controller"
	"agri/pkg/crop/service"
	"agri/pkg/response"
)

type cropCtrl struct{ s service.CropService }

func New(s service.CropService) controller.CropController { return &cropCtrl{s: s} }

func (h *cropCtrl) List(c echo.Context) error {
	out, err := h.s.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *cropCtrl) Get(c echo.Context) error {
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

func (h *cropCtrl) Create(c echo.Context) error {
	var req service.CropRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *cropCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.CropRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *cropCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}
