package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/delivery"
)

// publicApi serves the unauthenticated student-facing endpoints.
type publicApi struct {
	deps ServerDeps
}

func registerPublicAPI(g *echo.Group, deps ServerDeps) {
	api := publicApi{deps: deps}

	g.POST("/lookup", api.lookup)
	g.GET("/student/:id", api.getStudent)
	g.POST("/deliver", api.deliver)

	// dev/local file serving; an object store deployment presigns its own URLs
	if deps.LocalIssuer != nil {
		g.GET("/files/:ref", api.downloadFile)
	}
}

// lookup validates the id format before any store access, then resolves the
// student and their active course materials, newest first.
func (api *publicApi) lookup(ctx echo.Context) error {
	var data LookupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LookupRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	std, mats, err := api.deps.StudentSvc.Lookup(ctx.Request().Context(), data.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LookupResponse{Success: true, Student: std, Materials: mats})
}

func (api *publicApi) getStudent(ctx echo.Context) error {
	id := core.CleanString(ctx.Param("id"))
	if !core.StudentIDRegex.MatchString(id) {
		return core.NewValidationError(errors.New("invalid student id"),
			core.FieldError{Field: "id", Error: "must be the letter S followed by digits (e.g. S101)"})
	}

	std, err := api.deps.StudentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StudentResponse{Success: true, Student: std})
}

func (api *publicApi) deliver(ctx echo.Context) error {
	var data DeliverRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeliverRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	res, err := api.deps.DeliverySvc.Deliver(ctx.Request().Context(), delivery.Request{
		StudentID:   data.StudentID,
		MaterialIDs: data.MaterialIDs,
		Channel:     delivery.Channel(data.Method),
		Contact:     data.Contact,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeliverResponse{
		Success:   true,
		Status:    res.Outcome.Status,
		Details:   res.Outcome.Details,
		Materials: res.Materials,
	})
}

// downloadFile verifies a locally signed link and acknowledges it. Actual
// file bytes come from the object store in deployed environments; locally we
// only prove the link is valid and unexpired.
func (api *publicApi) downloadFile(ctx echo.Context) error {
	expires, err := parseInt64(ctx.QueryParam("expires"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid expires parameter")
	}

	ref, err := api.deps.LocalIssuer.Verify(ctx.Param("ref"), expires, ctx.QueryParam("sig"))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"file":    ref,
		"note":    "file streaming is served by the object store in deployed environments",
	})
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
