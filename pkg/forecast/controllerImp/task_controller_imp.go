package controllerImp

import (
	"strings"

	"github.com/labstack/echo/v4"

	"agri/pkg/forecast/controller"
	"agri/pkg/forecast/repository"
	"agri/pkg/forecast/service"
	"agri/pkg/middleware"
	"agri/pkg/response"
)

type taskCtrl struct{ s service.TaskService }

func NewTaskController(s service.TaskService) controller.TaskController { return &taskCtrl{s: s} }

func (h *taskCtrl) List(c echo.Context) error {
	page, err := response.QueryPage(c)
	if err != nil {
		return err
	}
	out, err := h.s.List(c.Request().Context(), repository.TaskFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
		Page:   page,
	})
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *taskCtrl) Get(c echo.Context) error {
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

func (h *taskCtrl) Create(c echo.Context) error {
	var req service.TaskRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req, middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *taskCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var patch service.TaskPatch
	if err := response.Bind(c, &patch); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *taskCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *taskCtrl) Results(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Results(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *taskCtrl) Run(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.s.Run(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}
