package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/middleware"
	"agri/pkg/report/controller"
	"agri/pkg/report/service"
	"agri/pkg/response"
)

type reportCtrl struct{ s service.ReportService }

func New(s service.ReportService) controller.ReportController { return &reportCtrl{s: s} }

func (h *reportCtrl) History(c echo.Context) error {
	page, err := response.QueryPage(c)
	if err != nil {
		return err
	}
	out, err := h.s.History(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *reportCtrl) Get(c echo.Context) error {
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

func (h *reportCtrl) Create(c echo.Context) error {
	var req service.ReportRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *reportCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.ReportRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *reportCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *reportCtrl) Export(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Export(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
