package parser

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/maputil"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// StripeResource is the x-stripeResource extension.
type StripeResource struct {
	ClassName          string
	InClass            string
	InPackage          string
	HasCollectionClass bool
}

// StripeOperation is one entry of the x-stripeOperations extension.
type StripeOperation struct {
	MethodName string
	MethodOn   string
	MethodType string
	Operation  string
	Path       string
}

// Schema is an OpenAPI schema object with the Stripe extensions the
// generator understands. Properties keep document order.
type Schema struct {
	Ref         string
	Title       string
	Description string
	Type        string
	Format      string
	// Enum holds enum values as strings; null entries are omitted.
	Enum       []string
	EnumHasNil bool
	Nullable   bool
	Properties *maputil.Ordered[string, *Schema]
	Required   []string
	Items      *Schema
	// AdditionalProperties is set when additionalProperties is a schema.
	AdditionalProperties *Schema
	// AdditionalPropertiesAllowed mirrors a boolean additionalProperties.
	AdditionalPropertiesAllowed *bool
	AnyOf                       []*Schema
	OneOf                       []*Schema
	AllOf                       []*Schema
	MaxLength                   *int
	Minimum                     *float64
	Pattern                     string
	Deprecated                  bool

	ResourceID         string
	StripeResource     *StripeResource
	StripeOperations   []StripeOperation
	ExpandableFields   []string
	ExpansionResources []*Schema
	BypassValidation   bool
	MostCommon         bool
	NonExhaustive      bool
	// Extensions holds every other x- key.
	Extensions map[string]any

	// Line is the source line of the schema node.
	Line int
}

// IsRef reports whether the schema is a bare reference.
func (s *Schema) IsRef() bool { return s != nil && s.Ref != "" }

// RefPath returns the component path of a components reference.
func (s *Schema) RefPath() (ir.ComponentPath, bool) {
	if !s.IsRef() {
		return "", false
	}
	return ir.ComponentPathFromRef(s.Ref)
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// IsExpandable reports whether the named field is listed in x-expandableFields.
func (s *Schema) IsExpandable(name string) bool {
	for _, f := range s.ExpandableFields {
		if f == name {
			return true
		}
	}
	return false
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	p, _ := s.Properties.Get(name)
	return p
}

// Union returns the anyOf or oneOf branches, whichever is present.
func (s *Schema) Union() []*Schema {
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	return s.OneOf
}

// ConstString returns the single enum value of a literal string schema.
func (s *Schema) ConstString() (string, bool) {
	if s == nil || len(s.Enum) != 1 || (s.Type != "" && s.Type != "string") {
		return "", false
	}
	return s.Enum[0], true
}

// IsEmptyStringLiteral reports whether the schema only admits "".
// Stripe uses this shape to let callers unset a field.
func (s *Schema) IsEmptyStringLiteral() bool {
	v, ok := s.ConstString()
	return ok && v == ""
}

// DecodeSchema builds a Schema from a YAML node.
func DecodeSchema(n *yaml.Node) (*Schema, error) {
	n = deref(n)
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schema must be a mapping, got %s", n.Line, kindName(n.Kind))
	}
	s := &Schema{Line: n.Line}
	err := pairs(n, func(key string, val *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			s.Ref = scalar(val)
		case "title":
			s.Title = scalar(val)
		case "description":
			s.Description = scalar(val)
		case "type":
			s.Type, s.Nullable = decodeType(val, s.Nullable)
		case "format":
			s.Format = scalar(val)
		case "enum":
			if seq := deref(val); seq != nil && seq.Kind == yaml.SequenceNode {
				for _, c := range seq.Content {
					if c = deref(c); c.Tag == "!!null" {
						s.EnumHasNil = true
						continue
					}
					s.Enum = append(s.Enum, scalar(c))
				}
			}
		case "nullable":
			s.Nullable = s.Nullable || boolValue(val)
		case "properties":
			s.Properties = maputil.NewOrdered[string, *Schema]()
			err = pairs(val, func(name string, pn *yaml.Node) error {
				ps, perr := DecodeSchema(pn)
				if perr != nil {
					return fmt.Errorf("property %s: %w", name, perr)
				}
				s.Properties.Set(name, ps)
				return nil
			})
		case "required":
			s.Required = stringList(val)
		case "items":
			s.Items, err = DecodeSchema(val)
		case "additionalProperties":
			if d := deref(val); d != nil && d.Kind == yaml.ScalarNode {
				allowed := boolValue(d)
				s.AdditionalPropertiesAllowed = &allowed
			} else {
				s.AdditionalProperties, err = DecodeSchema(val)
			}
		case "anyOf":
			s.AnyOf, err = decodeSchemaList(val)
		case "oneOf":
			s.OneOf, err = decodeSchemaList(val)
		case "allOf":
			s.AllOf, err = decodeSchemaList(val)
		case "maxLength":
			s.MaxLength = intPtr(val)
		case "minimum":
			s.Minimum = floatPtr(val)
		case "pattern":
			s.Pattern = scalar(val)
		case "deprecated":
			s.Deprecated = boolValue(val)
		case "x-resourceId":
			s.ResourceID = scalar(val)
		case "x-stripeResource":
			s.StripeResource = &StripeResource{
				ClassName:          scalar(child(val, "class_name")),
				InClass:            scalar(child(val, "in_class")),
				InPackage:          scalar(child(val, "in_package")),
				HasCollectionClass: boolValue(child(val, "has_collection_class")),
			}
		case "x-stripeOperations":
			s.StripeOperations = decodeStripeOperations(val)
		case "x-expandableFields":
			s.ExpandableFields = stringList(val)
		case "x-expansionResources":
			s.ExpansionResources, err = decodeSchemaList(child(val, "oneOf"))
		case "x-stripeBypassValidation":
			s.BypassValidation = boolValue(val)
		case "x-stripeMostCommon":
			s.MostCommon = boolValue(val)
		case "x-stripeNonExhaustive":
			s.NonExhaustive = boolValue(val)
		default:
			if strings.HasPrefix(key, "x-") {
				if s.Extensions == nil {
					s.Extensions = make(map[string]any)
				}
				s.Extensions[key] = anyValue(val)
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// decodeType handles both `type: string` and the 3.1 form `type: [string, "null"]`.
func decodeType(n *yaml.Node, nullable bool) (string, bool) {
	n = deref(n)
	if n == nil {
		return "", nullable
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value, nullable
	}
	var typ string
	for _, t := range stringList(n) {
		if t == "null" {
			nullable = true
			continue
		}
		typ = t
	}
	return typ, nullable
}

func decodeSchemaList(n *yaml.Node) ([]*Schema, error) {
	n = deref(n)
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected sequence of schemas", n.Line)
	}
	out := make([]*Schema, 0, len(n.Content))
	for i, c := range n.Content {
		s, err := DecodeSchema(c)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeStripeOperations(n *yaml.Node) []StripeOperation {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	ops := make([]StripeOperation, 0, len(n.Content))
	for _, c := range n.Content {
		ops = append(ops, StripeOperation{
			MethodName: scalar(child(c, "method_name")),
			MethodOn:   scalar(child(c, "method_on")),
			MethodType: scalar(child(c, "method_type")),
			Operation:  scalar(child(c, "operation")),
			Path:       scalar(child(c, "path")),
		})
	}
	return ops
}
