package controllerImp

import (
	"github.com/labstack/echo/v4"

	"agri/pkg/price/controller"
	"agri/pkg/price/repository"
	"agri/pkg/price/service"
	"agri/pkg/response"
)

type priceCtrl struct{ s service.PriceService }

func New(s service.PriceService) controller.PriceController { return &priceCtrl{s: s} }

type importReq struct {
	Rows   []service.ImportRow `json:"rows"`
	CropID *uint               `json:"crop_id"`
	Source string              `json:"source"`
}

func (h *priceCtrl) List(c echo.Context) error {
	var f repository.PriceFilter
	var err error
	if f.CropID, err = response.QueryUint(c, "crop_id"); err != nil {
		return err
	}
	if f.RegionID, err = response.QueryUint(c, "region_id"); err != nil {
		return err
	}
	if f.YearFrom, err = response.QueryInt(c, "year_from"); err != nil {
		return err
	}
	if f.YearTo, err = response.QueryInt(c, "year_to"); err != nil {
		return err
	}
	out, err := h.s.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *priceCtrl) Get(c echo.Context) error {
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

func (h *priceCtrl) Create(c echo.Context) error {
	var req service.PriceRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *priceCtrl) Update(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req service.PriceRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *priceCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *priceCtrl) Import(c echo.Context) error {
	var req importReq
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.ImportRows(c.Request().Context(), req.Rows, service.ImportOptions{DefaultCropID: req.CropID, Source: req.Source})
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *priceCtrl) ImportURL(c echo.Context) error {
	var req service.ImportURLRequest
	if err := response.Bind(c, &req); err != nil {
		return err
	}
	out, err := h.s.ImportFromURL(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Created(c, out)
}
