package openapi

import (
	"anino/internal/engine/resolver"
	"anino/internal/shared/util"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema converts a descriptor into an inline OpenAPI schema. Property names
// use the same casing as synthesized bodies.
func Schema(d resolver.TypeDescriptor) *openapi3.Schema {
	switch d := d.(type) {
	case *resolver.Primitive:
		return primitiveSchema(d.Of)
	case *resolver.Collection:
		return openapi3.NewArraySchema().WithItems(Schema(d.Element))
	case *resolver.Dictionary:
		value := Schema(d.Value)
		if isUnshaped(d.Value) {
			value = fillerSchema()
		}
		return openapi3.NewObjectSchema().WithAdditionalProperties(value)
	case *resolver.Complex:
		schema := openapi3.NewObjectSchema()
		if d.Name != "" {
			schema.Title = d.Name
		}
		for _, p := range d.Properties {
			schema.WithProperty(util.CamelCase(p.Name), propertySchema(p))
		}
		return schema
	}
	return fillerSchema()
}

func propertySchema(p *resolver.PropertyDescriptor) *openapi3.Schema {
	var schema *openapi3.Schema
	switch {
	case p.Nested != nil:
		schema = Schema(p.Nested)
	case p.Primitive != 0:
		schema = primitiveSchema(p.Primitive)
	default:
		schema = fillerSchema()
	}
	if p.Nullable {
		schema.Nullable = true
	}
	return schema
}

func primitiveSchema(kind resolver.PrimitiveKind) *openapi3.Schema {
	switch kind {
	case resolver.PrimitiveString:
		return openapi3.NewStringSchema()
	case resolver.PrimitiveInteger:
		return openapi3.NewIntegerSchema()
	case resolver.PrimitiveFloating:
		return openapi3.NewFloat64Schema()
	case resolver.PrimitiveBoolean:
		return openapi3.NewBoolSchema()
	case resolver.PrimitiveChar:
		return openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(1)
	case resolver.PrimitiveDateTime:
		return openapi3.NewDateTimeSchema()
	case resolver.PrimitiveDate:
		return openapi3.NewStringSchema().WithFormat("date")
	case resolver.PrimitiveTime:
		return openapi3.NewStringSchema().WithFormat("time")
	case resolver.PrimitiveDuration:
		return openapi3.NewStringSchema().WithFormat("duration")
	case resolver.PrimitiveUUID:
		return openapi3.NewUUIDSchema()
	}
	return openapi3.NewSchema()
}

// fillerSchema describes the fixed-shape object synthesized where no shape is
// known.
func fillerSchema() *openapi3.Schema {
	metadata := openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("generated", openapi3.NewDateTimeSchema())
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("value", openapi3.NewFloat64Schema()).
		WithProperty("isActive", openapi3.NewBoolSchema()).
		WithProperty("metadata", metadata)
}

func isUnshaped(d resolver.TypeDescriptor) bool {
	switch v := d.(type) {
	case nil, *resolver.Unknown:
		return true
	case *resolver.Primitive:
		return v.Of == resolver.PrimitiveOpaque
	case *resolver.Complex:
		return len(v.Properties) == 0
	}
	return false
}
