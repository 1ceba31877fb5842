package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is a minimal JSON Schema representation, sufficient for describing
// the structured-output shapes this module asks LLM providers for. It supports
// objects, arrays, primitives, enums and required properties.
type Schema struct {
	// Type specifies the data type (e.g. "object", "array", "string", "integer").
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object schema, each with its own schema.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items defines the element schema for array types.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether undeclared properties are allowed.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum lists the allowed values for the field.
	Enum []any `json:"enum,omitempty"`
}

// Generate builds a JSON schema from the struct type T using its json and
// jsonschema struct tags. Non-pointer fields without omitempty are marked
// required, matching how providers enforce strict structured output.
//
// Recursive types are not supported: the extraction shapes this module sends
// to providers are flat value structs.
func Generate[T any]() *Schema {
	return generate(reflect.TypeFor[T]())
}

func generate(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return generate(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: generate(t.Elem())}
	case reflect.Struct:
		return generateStruct(t)
	default:
		return &Schema{Type: "object"}
	}
}

func generateStruct(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldSchema := generate(field.Type)
		requiredByTag, err := applySchemaTag(field.Type, field.Tag.Get("jsonschema"), fieldSchema)
		if err != nil {
			// A malformed tag is a programming error; surface it loudly
			// rather than silently emitting a wrong schema.
			panic(fmt.Sprintf("jsonschema: field %s.%s: %v", t.Name(), field.Name, err))
		}
		schema.Properties[name] = fieldSchema

		if requiredByTag || (field.Type.Kind() != reflect.Ptr && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// parseJSONTag resolves the property name from the json struct tag.
// Returns skip=true for fields tagged json:"-".
func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag == "" {
		return name, false, false
	}
	if comma := strings.Index(tag, ","); comma != -1 {
		if tag[:comma] != "" {
			name = tag[:comma]
		}
		omitEmpty = strings.Contains(tag[comma:], "omitempty")
		return name, omitEmpty, false
	}
	return tag, false, false
}

// applySchemaTag applies the jsonschema struct tag to a generated field schema.
// Supported entries: description=..., enum=... (repeatable), required.
// Enum values are converted to the field's declared type.
func applySchemaTag(fieldType reflect.Type, tag string, schema *Schema) (requiredByTag bool, err error) {
	if tag == "" {
		return false, nil
	}

	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case key == "required" && !hasValue:
			requiredByTag = true
		case key == "description" && hasValue:
			schema.Description = value
		case key == "enum" && hasValue:
			enumValue, convErr := convertEnumValue(fieldType, value)
			if convErr != nil {
				return false, convErr
			}
			schema.Enum = append(schema.Enum, enumValue)
		}
	}

	return requiredByTag, nil
}

func convertEnumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not an integer: %w", value, err)
		}
		return parsed, nil
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a number: %w", value, err)
		}
		return parsed, nil
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a bool: %w", value, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", fieldType)
	}
}

// JSONString returns the compact JSON representation of the schema.
func (s *Schema) JSONString() (string, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(encoded), nil
}

// String returns the JSON representation of the schema, or an error message
// if marshalling fails.
func (s *Schema) String() string {
	encoded, err := s.JSONString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return encoded
}
