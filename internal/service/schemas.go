package service

import "github.com/xeipuuv/gojsonschema"

const predictResponseSchema = `{
	"type": "object",
	"required": ["prediction"]
}`

const predictionListSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["lat", "long", "prediction"],
		"properties": {
			"lat": {"type": ["number", "string"]},
			"long": {"type": ["number", "string"]},
			"atm_group": {"type": ["string", "null"]}
		}
	}
}`

func compileSchema(source string) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
}
