package api

import "net/http"

// Route describes an operation exposed by the api handler. The same table
// is used to register the handlers and to generate the API documentation.
type Route struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string

	Parameters []Parameter

	// RequestBody is a zero value of the expected request payload, if any
	RequestBody any

	Responses []Response

	Handler http.HandlerFunc
}

type Parameter struct {
	Name string
	// In is either "path" or "query"
	In          string
	Description string
	Type        string
	Required    bool
}

type Response struct {
	Status      int
	Description string
	// Body is a zero value of the response payload, nil for empty responses
	Body any
}

const TagTasks = "Task Controller"
