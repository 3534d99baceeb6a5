package controllerImp

import (
	"io"

	"github.com/labstack/echo/v4"

	"agri/pkg/apperr"
	"agri/pkg/dataset/controller"
	"agri/pkg/dataset/service"
	"agri/pkg/middleware"
	"agri/pkg/response"
)

type datasetCtrl struct{ s service.DatasetService }

func New(s service.DatasetService) controller.DatasetController { return &datasetCtrl{s: s} }

// Upload takes a multipart form: file, optional crop_id and source.
func (h *datasetCtrl) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Invalid("file", "is required")
	}
	src, err := fh.Open()
	if err != nil {
		return apperr.Invalid("file", "cannot be read")
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, service.MaxUploadBytes+1))
	if err != nil {
		return apperr.Invalid("file", "cannot be read")
	}

	cropID, err := response.ParseUint("crop_id", c.FormValue("crop_id"))
	if err != nil {
		return err
	}
	out, err := h.s.Upload(c.Request().Context(), service.UploadRequest{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
		CropID:      cropID,
		Source:      c.FormValue("source"),
	}, middleware.UserID(c))
	if err != nil {
		return err
	}
	return response.Created(c, out)
}

func (h *datasetCtrl) List(c echo.Context) error {
	cropID, err := response.QueryUint(c, "crop_id")
	if err != nil {
		return err
	}
	out, err := h.s.List(c.Request().Context(), cropID)
	if err != nil {
		return err
	}
	return response.OK(c, out)
}

func (h *datasetCtrl) Get(c echo.Context) error {
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

func (h *datasetCtrl) Delete(c echo.Context) error {
	id, err := response.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.s.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OK(c, nil)
}
