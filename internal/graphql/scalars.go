package graphql

import (
	"encoding/json"
	"fmt"
)

// JSON carries an arbitrary JSON value such as event metadata.
type JSON struct {
	Value any
}

func (JSON) ImplementsGraphQLType(name string) bool {
	return name == "JSON"
}

func (j *JSON) UnmarshalGraphQL(input any) error {
	switch input.(type) {
	case map[string]any, []any, string, bool, int32, float64, nil:
		j.Value = input
		return nil
	}
	return fmt.Errorf("unsupported JSON input %T", input)
}

func (j JSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Value)
}
