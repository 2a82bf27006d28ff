package api

import _ "embed"

// Spec is the OpenAPI document served at /openapi.yml and used for request body validation.
//
//go:embed openapi.yml
var Spec []byte
