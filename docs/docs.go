// Package docs registers the generated swagger spec so the http-swagger
// handler mounted in api.NewRouter can serve it. It stands in for the file
// `swag init` would normally emit from the handler doc comments.
package docs

import "github.com/swaggo/swag"

const swaggerInfoTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "vectordb API",
        "description": "A multi-tenant in-memory vector database with kNN search over libraries of document chunks.",
        "version": "1.0"
    },
    "basePath": "/api/v1",
    "paths": {}
}`

// SwaggerInfo holds the API metadata the teacher's main.go annotation block
// describes, registered with swag at package init.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "vectordb API",
	Description:      "A multi-tenant in-memory vector database with kNN search over libraries of document chunks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerInfoTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
