package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/docs"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the subset of an OpenAPI 3.0 document the API publishes
type OpenAPI3Spec struct {
	OpenAPI    string         `json:"openapi"`
	Info       map[string]any `json:"info"`
	Servers    []Server       `json:"servers"`
	Paths      map[string]any `json:"paths"`
	Components map[string]any `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// DefaultServers is used when no public URL is configured
var DefaultServers = []Server{
	{URL: "http://localhost:8080/api/v1", Description: "Local Development"},
}

// OpenAPIHandler converts the generated Swagger 2.0 document to OpenAPI 3.0
type OpenAPIHandler struct {
	servers []Server
}

// NewOpenAPIHandler creates a new OpenAPIHandler
func NewOpenAPIHandler(servers []Server) *OpenAPIHandler {
	if len(servers) == 0 {
		servers = DefaultServers
	}
	return &OpenAPIHandler{servers: servers}
}

// transformRefs rewrites #/definitions/ refs to #/components/schemas/ and
// converts non-body parameters to the OpenAPI 3.0 schema form
func transformRefs(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}

		result := make(map[string]any, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

func transformParameter(param map[string]any) map[string]any {
	// body parameters become requestBody in 3.0; left as-is
	if param["in"] == "body" {
		return param
	}

	result := make(map[string]any)
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]any)
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		val, ok := param[field]
		if !ok {
			continue
		}
		if field == "items" {
			val = transformRefs(val)
		}
		schema[field] = val
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}

	return result
}

// ServeSpec serves the API description as OpenAPI 3.0
func (h *OpenAPIHandler) ServeSpec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API description")
	}

	var swagger2 map[string]any
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse API description")
	}

	info, _ := swagger2["info"].(map[string]any)
	paths, _ := swagger2["paths"].(map[string]any)
	transformedPaths, _ := transformRefs(paths).(map[string]any)

	components := make(map[string]any)
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]any); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]any); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    h.servers,
		Paths:      transformedPaths,
		Components: components,
	})
}
