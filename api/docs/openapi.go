// api/docs/openapi.go
package docs

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/Annany2002/bookshelf-backend/api/models"
)

// Security scheme names used in Operation.Security.
const (
	BearerScheme      = "HTTPBearer"
	AdminSecretScheme = "AdminSecret"
)

// Operation describes one route for the generated document.
// Request and Response are zero values of the body types (nil for no body).
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Security    []string
	Request     any
	Response    any
}

// Document is an OpenAPI 3.1 description assembled from registered operations.
type Document struct {
	mu      sync.Mutex
	title   string
	version string
	paths   map[string]map[string]any
	schemas map[string]any
}

// NewDocument creates an empty document.
func NewDocument(title, version string) *Document {
	d := &Document{
		title:   title,
		version: version,
		paths:   map[string]map[string]any{},
		schemas: map[string]any{},
	}
	d.schemaRef(reflect.TypeOf(models.ErrorResponse{}))
	return d
}

// Add registers an operation.
func (d *Document) Add(op Operation) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := map[string]any{
		"operationId": op.OperationID,
		"summary":     op.Summary,
	}

	responses := map[string]any{
		"200": d.jsonContent("Successful Response", op.Response),
	}
	if op.Request != nil {
		entry["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": d.schemaFor(reflect.TypeOf(op.Request))},
			},
		}
		responses["422"] = d.jsonContent("Validation Error", models.ErrorResponse{})
	}
	if len(op.Security) > 0 {
		requirements := make([]any, 0, len(op.Security))
		for _, name := range op.Security {
			requirements = append(requirements, map[string]any{name: []string{}})
		}
		entry["security"] = requirements
		responses["401"] = d.jsonContent("Not Authenticated", models.ErrorResponse{})
		responses["403"] = d.jsonContent("Forbidden", models.ErrorResponse{})
	}
	entry["responses"] = responses

	method := strings.ToLower(op.Method)
	if d.paths[op.Path] == nil {
		d.paths[op.Path] = map[string]any{}
	}
	d.paths[op.Path][method] = entry
}

// Spec returns the document as nested maps, ready for JSON or YAML encoding.
func (d *Document) Spec() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make(map[string]any, len(d.paths))
	for p, ops := range d.paths {
		paths[p] = ops
	}
	schemas := make(map[string]any, len(d.schemas))
	for k, v := range d.schemas {
		schemas[k] = v
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   d.title,
			"version": d.version,
		},
		"paths": paths,
		"components": map[string]any{
			"schemas": schemas,
			"securitySchemes": map[string]any{
				BearerScheme: map[string]any{
					"type":   "http",
					"scheme": "bearer",
				},
				AdminSecretScheme: map[string]any{
					"type": "apiKey",
					"in":   "header",
					"name": "X-Admin-Secret",
				},
			},
		},
	}
}

// ServeJSON writes the document as JSON.
func (d *Document) ServeJSON(c *gin.Context) {
	c.JSON(http.StatusOK, d.Spec())
}

// ServeYAML writes the document as YAML.
func (d *Document) ServeYAML(c *gin.Context) {
	out, err := yaml.Marshal(d.Spec())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
}

// ServeUI returns a handler rendering Swagger UI for the JSON document at specURL.
func ServeUI(title, specURL string) gin.HandlerFunc {
	page := strings.NewReplacer("{{title}}", title, "{{url}}", specURL).Replace(swaggerUIPage)
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

func (d *Document) jsonContent(description string, body any) map[string]any {
	resp := map[string]any{"description": description}
	if body != nil {
		resp["content"] = map[string]any{
			"application/json": map[string]any{"schema": d.schemaFor(reflect.TypeOf(body))},
		}
	}
	return resp
}

// schemaFor returns an inline schema for scalars and arrays, and a $ref for structs.
func (d *Document) schemaFor(t reflect.Type) map[string]any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return d.schemaRef(t)
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": d.schemaFor(t.Elem())}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	default:
		return map[string]any{}
	}
}

// schemaRef registers t under components/schemas and returns a reference to it.
func (d *Document) schemaRef(t reflect.Type) map[string]any {
	name := t.Name()
	ref := map[string]any{"$ref": "#/components/schemas/" + name}
	if _, ok := d.schemas[name]; ok {
		return ref
	}
	// Reserve the name first so self-referencing types terminate.
	d.schemas[name] = map[string]any{}

	properties := map[string]any{}
	required := []string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		jsonName, omitEmpty, skip := parseJSONTag(f)
		if skip {
			continue
		}
		prop := d.schemaFor(f.Type)
		properties[jsonName] = prop

		binding := f.Tag.Get("binding")
		switch {
		case strings.Contains(binding, "required"):
			required = append(required, jsonName)
		case f.Type.Kind() != reflect.Pointer && !omitEmpty && binding == "":
			required = append(required, jsonName)
		}
	}

	schema := map[string]any{
		"title":      name,
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	d.schemas[name] = schema
	return ref
}

func parseJSONTag(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
<title>{{title}} - Swagger UI</title>
<meta charset="utf-8">
<link type="text/css" rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
	url: '{{url}}',
	dom_id: '#swagger-ui',
	layout: 'BaseLayout',
	deepLinking: true,
	presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
})
</script>
</body>
</html>
`
