package openapi

import (
	"net/http"
	"path"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bornholm/taskmanager/internal/http/handler/api"
)

const Version = "3.0.3"

type Document struct {
	OpenAPI    string                           `json:"openapi" yaml:"openapi"`
	Info       Info                             `json:"info" yaml:"info"`
	Servers    []Server                         `json:"servers,omitempty" yaml:"servers,omitempty"`
	Tags       []Tag                            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths      map[string]map[string]*Operation `json:"paths" yaml:"paths"`
	Components Components                       `json:"components" yaml:"components"`
}

type Info struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version" yaml:"version"`
	Contact     *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

type Server struct {
	URL string `json:"url" yaml:"url"`
}

type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Operation struct {
	OperationID string               `json:"operationId" yaml:"operationId"`
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      *Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Ref        string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type       string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string             `json:"format,omitempty" yaml:"format,omitempty"`
	Items      *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

type Options struct {
	Info    Info
	Servers []Server
	Tags    []Tag
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Info: Info{
			Title:       "Task Manager API",
			Description: "API for managing tasks",
			Version:     "1.0",
			Contact: &Contact{
				Name:  "Task Manager Team",
				Email: "support@taskmanager.com",
			},
		},
		Tags: []Tag{
			{Name: api.TagTasks, Description: "APIs for managing tasks"},
		},
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithInfo(info Info) OptionFunc {
	return func(opts *Options) {
		opts.Info = info
	}
}

func WithServer(url string) OptionFunc {
	return func(opts *Options) {
		opts.Servers = append(opts.Servers, Server{URL: url})
	}
}

func NewDocument(funcs ...OptionFunc) *Document {
	opts := NewOptions(funcs...)
	return &Document{
		OpenAPI: Version,
		Info:    opts.Info,
		Servers: opts.Servers,
		Tags:    opts.Tags,
		Paths:   map[string]map[string]*Operation{},
		Components: Components{
			Schemas: map[string]*Schema{},
		},
	}
}

// AddRoutes documents the given routes, their paths being relative to basePath.
func (d *Document) AddRoutes(basePath string, routes ...api.Route) {
	for _, r := range routes {
		p := path.Join("/", basePath, r.Path)

		item, exists := d.Paths[p]
		if !exists {
			item = map[string]*Operation{}
			d.Paths[p] = item
		}

		item[strings.ToLower(r.Method)] = d.operation(r)
	}
}

func (d *Document) operation(r api.Route) *Operation {
	op := &Operation{
		OperationID: r.OperationID,
		Summary:     r.Summary,
		Description: r.Description,
		Tags:        r.Tags,
		Responses:   map[string]*Response{},
	}

	for _, p := range r.Parameters {
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			In:          p.In,
			Description: p.Description,
			Required:    p.Required || p.In == "path",
			Schema:      primitiveSchema(p.Type),
		})
	}

	if r.RequestBody != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: d.schemaOf(reflect.TypeOf(r.RequestBody))},
			},
		}
	}

	for _, res := range r.Responses {
		description := res.Description
		if description == "" {
			description = http.StatusText(res.Status)
		}

		response := &Response{Description: description}

		if res.Body != nil {
			response.Content = map[string]MediaType{
				"application/json": {Schema: d.schemaOf(reflect.TypeOf(res.Body))},
			}
		}

		op.Responses[strconv.Itoa(res.Status)] = response
	}

	return op
}

var timeType = reflect.TypeOf(time.Time{})

// schemaOf derives a schema from the json tags of the given type. Named
// structs are registered as components and referenced.
func (d *Document) schemaOf(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Struct:
		if _, exists := d.Components.Schemas[t.Name()]; !exists {
			schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
			d.Components.Schemas[t.Name()] = schema

			for i := range t.NumField() {
				field := t.Field(i)
				if !field.IsExported() {
					continue
				}

				name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
				if name == "-" {
					continue
				}
				if name == "" {
					name = field.Name
				}

				schema.Properties[name] = d.schemaOf(field.Type)
			}
		}

		return &Schema{Ref: "#/components/schemas/" + t.Name()}

	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: d.schemaOf(t.Elem())}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int64, reflect.Uint64:
		return &Schema{Type: "integer", Format: "int64"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "int32"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	default:
		return &Schema{Type: "string"}
	}
}

func primitiveSchema(typ string) *Schema {
	switch typ {
	case "integer":
		return &Schema{Type: "integer", Format: "int64"}
	case "":
		return &Schema{Type: "string"}
	default:
		return &Schema{Type: typ}
	}
}
