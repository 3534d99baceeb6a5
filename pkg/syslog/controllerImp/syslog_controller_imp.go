package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/response"
	"agri/pkg/syslog/controller"
	"agri/pkg/syslog/service"
)

type logCtrl struct{ s service.LogService }

func New(s service.LogService) controller.LogController { return &logCtrl{s: s} }

func (h *logCtrl) List(c echo.Context) error {
	page, err := response.QueryPage(c)
	if err != nil {
		return err
	}
	out, err := h.s.List(c.Request().Context(), c.QueryParam("username"), page)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
