package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/region/controller"
	"agri/pkg/region/service"
	"agri/pkg/response"
)

type regionCtrl struct{ s service.RegionService }

func New(s service.RegionService) controller.RegionController { return &regionCtrl{s: s} }

func (h *regionCtrl) List(c echo.Context) error {
	level, err := response.QueryInt(c, "level")
	if err != nil {
		return err
	}
	out, err := h.s.List(c.Request().Context(), service.RegionFilter{
		Level:         level,
		IncludeHidden: c.QueryParam("include_hidden") == "true",
	})
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *regionCtrl) Get(c echo.Context) error {
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

func (h *regionCtrl) Children(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Children(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *regionCtrl) Create(c echo.Context) error {
	var req service.RegionRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *regionCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.RegionRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *regionCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *regionCtrl) UpdateVisibility(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.VisibilityRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	out, err := h.s.UpdateVisibility(c.Request().Context(), id, *req.Hidden)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
