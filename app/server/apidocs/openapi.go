package apidocs

import (
	"concentrate-quality/app/server/constants"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

const bearerScheme = "bearerAuth"

func measurementSchema() *openapi3.Schema {
	return openapi3.NewFloat64Schema().WithMin(constants.MeasurementMin).WithMax(constants.MeasurementMax)
}

func monthSchema() *openapi3.Schema {
	return openapi3.NewIntegerSchema().WithMin(constants.MonthMin).WithMax(constants.MonthMax)
}

func yearSchema() *openapi3.Schema {
	return openapi3.NewIntegerSchema().WithMin(constants.YearMin)
}

func recordSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("iron", measurementSchema()).
		WithProperty("silicon", measurementSchema()).
		WithProperty("aluminum", measurementSchema()).
		WithProperty("calcium", measurementSchema()).
		WithProperty("sulfur", measurementSchema()).
		WithRequired([]string{"name", "iron", "silicon", "aluminum", "calcium", "sulfur"})
}

func statSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("avg", openapi3.NewFloat64Schema()).
		WithProperty("min", openapi3.NewFloat64Schema()).
		WithProperty("max", openapi3.NewFloat64Schema())
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().WithProperty("detail", openapi3.NewStringSchema())
}

func errorResponse(description string) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(description).WithJSONSchema(errorSchema())
}

func periodParameters(op *openapi3.Operation) {
	op.AddParameter(openapi3.NewQueryParameter("month").WithRequired(true).WithSchema(monthSchema()))
	op.AddParameter(openapi3.NewQueryParameter("year").WithRequired(true).WithSchema(yearSchema()))
}

func secured(op *openapi3.Operation) {
	op.Security = openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerScheme))
	op.AddResponse(http.StatusUnauthorized, errorResponse("Missing, malformed or invalid bearer token"))
}

// Document 描述全部 HTTP 接口
func Document(version string) *openapi3.T {
	// POST /token
	login := openapi3.NewOperation()
	login.Summary = "Issue an access token"
	login.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithSchema(
		openapi3.NewObjectSchema().
			WithProperty("username", openapi3.NewStringSchema()).
			WithProperty("password", openapi3.NewStringSchema()).
			WithRequired([]string{"username", "password"}),
		[]string{"application/x-www-form-urlencoded"},
	)}
	login.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Access token").WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("access_token", openapi3.NewStringSchema()).
			WithProperty("token_type", openapi3.NewStringSchema()),
	))
	login.AddResponse(http.StatusUnauthorized, errorResponse("Incorrect username or password"))
	login.AddResponse(http.StatusUnprocessableEntity, errorResponse("Missing form field"))

	// POST /users/
	register := openapi3.NewOperation()
	register.Summary = "Register a user"
	register.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("username", openapi3.NewStringSchema()).
			WithProperty("password", openapi3.NewStringSchema()).
			WithRequired([]string{"username", "password"}),
	)}
	register.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Created user").WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("id", openapi3.NewIntegerSchema()).
			WithProperty("username", openapi3.NewStringSchema()).
			WithProperty("is_active", openapi3.NewBoolSchema()),
	))
	register.AddResponse(http.StatusBadRequest, errorResponse("Username already registered"))
	register.AddResponse(http.StatusUnprocessableEntity, errorResponse("Invalid body"))

	// POST /api/concentrate-quality
	save := openapi3.NewOperation()
	save.Summary = "Save records for a month"
	save.Description = "Failures other than body validation are reported in a 200 body unless LEGACY_SAVE_ERRORS is false."
	save.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("month", monthSchema()).
			WithProperty("year", yearSchema()).
			WithProperty("replace", openapi3.NewBoolSchema()).
			WithProperty("data", openapi3.NewArraySchema().WithItems(recordSchema())).
			WithRequired([]string{"month", "year", "data"}),
	)}
	save.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Save status").WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("status", openapi3.NewStringSchema().WithEnum("ok", "error")).
			WithProperty("message", openapi3.NewStringSchema()),
	))
	save.AddResponse(http.StatusUnprocessableEntity, errorResponse("Invalid body"))
	secured(save)

	// GET /api/concentrate-quality
	list := openapi3.NewOperation()
	list.Summary = "Records of the current user for a month"
	periodParameters(list)
	list.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Month data").WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("month", openapi3.NewIntegerSchema()).
			WithProperty("year", openapi3.NewIntegerSchema()).
			WithProperty("data", openapi3.NewArraySchema().WithItems(recordSchema())),
	))
	list.AddResponse(http.StatusUnprocessableEntity, errorResponse("Invalid query parameter"))
	secured(list)

	// GET /api/concentrate-quality/summary
	summary := openapi3.NewOperation()
	summary.Summary = "Avg, min and max of every measurement for a month"
	periodParameters(summary)
	summary.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Summary").WithJSONSchema(
		openapi3.NewObjectSchema().
			WithProperty("month", openapi3.NewIntegerSchema()).
			WithProperty("year", openapi3.NewIntegerSchema()).
			WithProperty("count", openapi3.NewIntegerSchema()).
			WithProperty("iron", statSchema()).
			WithProperty("silicon", statSchema()).
			WithProperty("aluminum", statSchema()).
			WithProperty("calcium", statSchema()).
			WithProperty("sulfur", statSchema()),
	))
	summary.AddResponse(http.StatusNotFound, errorResponse("No data for the requested period"))
	summary.AddResponse(http.StatusUnprocessableEntity, errorResponse("Invalid query parameter"))
	secured(summary)

	// GET /healthz
	health := openapi3.NewOperation()
	health.Summary = "Health check"
	health.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("Service is up"))

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Concentrate Quality API",
			Description: "Monthly quality measurements of iron ore concentrate: iron, silicon, aluminum, calcium and sulfur content.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/token", &openapi3.PathItem{Post: login}),
			openapi3.WithPath("/users/", &openapi3.PathItem{Post: register}),
			openapi3.WithPath("/api/concentrate-quality", &openapi3.PathItem{Post: save, Get: list}),
			openapi3.WithPath("/api/concentrate-quality/summary", &openapi3.PathItem{Get: summary}),
			openapi3.WithPath("/healthz", &openapi3.PathItem{Get: health}),
		),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}
}
