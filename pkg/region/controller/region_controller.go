package controller

import "github.com/labstack/echo/v4"

type RegionController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Children(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	UpdateVisibility(c echo.Context) error
}
