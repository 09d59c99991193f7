package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
)

// adminApi serves the back-office endpoints behind JWT auth.
type adminApi struct {
	deps ServerDeps
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{deps: deps}

	g.POST("/auth/login", api.login)

	ag := g.Group("", jwt, adminMiddleware())

	mg := ag.Group("/materials")
	mg.GET("", api.queryMaterials)
	mg.POST("", api.createMaterial)
	mg.POST("/bulk", api.createMaterials)
	mg.PUT("/:id", api.updateMaterial)
	mg.DELETE("/:id", api.deleteMaterial)

	sg := ag.Group("/students")
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.deleteStudent)

	ag.GET("/stats", api.stats)
}

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	adm, err := api.deps.AdminSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(api.deps.Conf, GetAdminClaims(api.deps.Conf, adm))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}

// Materials

func (api *adminApi) queryMaterials(ctx echo.Context) error {
	mats, err := api.deps.AdminSvc.QueryMaterials(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "materials": mats})
}

func (api *adminApi) createMaterial(ctx echo.Context) error {
	var data NewMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	mat, err := api.deps.AdminSvc.CreateMaterial(ctx.Request().Context(), data.material(), claims.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "material": mat})
}

func (api *adminApi) createMaterials(ctx echo.Context) error {
	var data BulkMaterials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMaterials")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	mats := make([]material.Material, 0, len(data.Materials))
	for _, m := range data.Materials {
		mats = append(mats, m.material())
	}

	created, err := api.deps.AdminSvc.CreateMaterials(ctx.Request().Context(), mats, claims.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "materials": created, "count": len(created)})
}

func (api *adminApi) updateMaterial(ctx echo.Context) error {
	var data UpdateMaterialRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMaterialRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.AdminSvc.UpdateMaterial(ctx.Request().Context(), ctx.Param("id"), data.update()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *adminApi) deleteMaterial(ctx echo.Context) error {
	if err := api.deps.AdminSvc.DeleteMaterial(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Students

func (api *adminApi) queryStudents(ctx echo.Context) error {
	stds, err := api.deps.AdminSvc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "students": stds})
}

func (api *adminApi) createStudent(ctx echo.Context) error {
	var data NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	std, err := api.deps.AdminSvc.CreateStudent(ctx.Request().Context(), data.student())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "student": std})
}

func (api *adminApi) updateStudent(ctx echo.Context) error {
	id := core.CleanString(ctx.Param("id"))

	var data UpdateStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudentRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.AdminSvc.UpdateStudent(ctx.Request().Context(), id, data.update()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *adminApi) deleteStudent(ctx echo.Context) error {
	if err := api.deps.AdminSvc.DeleteStudent(ctx.Request().Context(), core.CleanString(ctx.Param("id"))); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Stats

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.deps.AdminSvc.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}
