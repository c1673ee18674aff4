package content

import "github.com/cmdtrainer/cmdtrainer/internal/docschema"

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// ModuleSchema is the shape every module file must have before it is
// decoded. Semantic checks happen later in catalog.Validate.
var ModuleSchema = &docschema.Schema{
	Name: "module",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"id", "lessons"},
		"properties": map[string]any{
			"id":              map[string]any{"type": "string"},
			"title":           map[string]any{"type": "string"},
			"description":     map[string]any{"type": "string"},
			"order":           map[string]any{"type": "integer"},
			"content_version": map[string]any{"type": "integer", "minimum": 1},
			"prerequisites":   stringList,
			"lessons": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "cards"},
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"title": map[string]any{"type": "string"},
						"order": map[string]any{"type": "integer"},
						"cards": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []string{"id", "prompt", "answers"},
								"properties": map[string]any{
									"id":           map[string]any{"type": "string"},
									"prompt":       map[string]any{"type": "string"},
									"answers":      stringList,
									"command":      map[string]any{"type": "string"},
									"tested_flags": stringList,
									"explanation":  map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

// PolicySchema describes overlap.yaml.
var PolicySchema = &docschema.Schema{
	Name: "overlap-policy",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"homes": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"contextual": map[string]any{
				"type":                 "object",
				"additionalProperties": stringList,
			},
		},
		"additionalProperties": false,
	},
}
