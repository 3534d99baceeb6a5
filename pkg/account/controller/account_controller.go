package controller

import "github.com/labstack/echo/v4"

type UserController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Roles(c echo.Context) error
	AssignRole(c echo.Context) error
	RevokeRole(c echo.Context) error
}

type RoleController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Delete(c echo.Context) error
	Permissions(c echo.Context) error
	Grant(c echo.Context) error
	Revoke(c echo.Context) error
}

type PermissionController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
}
