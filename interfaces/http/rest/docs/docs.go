// Package docs serves the OpenAPI description of the API and a Swagger UI
// page that renders it.
package docs

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"
)

// SpecPath is where the JSON form of the OpenAPI document is served
const SpecPath = "/openapi.json"

//go:embed openapi.yaml
var openAPIYAML []byte

// SpecJSON returns the embedded OpenAPI document converted to JSON
func SpecJSON() ([]byte, error) {
	var spec interface{}
	if err := yaml.Unmarshal(openAPIYAML, &spec); err != nil {
		return nil, err
	}
	return json.Marshal(spec)
}

// SpecHandler serves the OpenAPI document, as YAML when the client asks
// for it and as JSON otherwise. The JSON form is rendered once.
func SpecHandler() (http.HandlerFunc, error) {
	jsonSpec, err := SpecJSON()
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept == "application/yaml" || accept == "application/x-yaml" {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(openAPIYAML)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jsonSpec)
	}, nil
}

// UIHandler serves a Swagger UI page for the document at SpecPath
func UIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(uiPage))
	}
}

const uiPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Educational Economic Chatbot API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "` + SpecPath + `",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                layout: "StandaloneLayout"
            });
        };
    </script>
</body>
</html>`
