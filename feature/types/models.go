package types

import (
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// BaseTypeID is one of the CMIS base object types.
type BaseTypeID string

const (
	BaseDocument     BaseTypeID = "cmis:document"
	BaseFolder       BaseTypeID = "cmis:folder"
	BaseRelationship BaseTypeID = "cmis:relationship"
	BasePolicy       BaseTypeID = "cmis:policy"
	BaseItem         BaseTypeID = "cmis:item"
	BaseSecondary    BaseTypeID = "cmis:secondary"
)

// BaseTypes lists every base type id in CMIS order.
var BaseTypes = []BaseTypeID{BaseDocument, BaseFolder, BaseRelationship, BasePolicy, BaseItem, BaseSecondary}

// IsValid reports whether b is a known base type.
func (b BaseTypeID) IsValid() bool {
	for _, known := range BaseTypes {
		if b == known {
			return true
		}
	}
	return false
}

// PropertyType is the data type of a property.
type PropertyType string

const (
	PropertyBoolean  PropertyType = "boolean"
	PropertyID       PropertyType = "id"
	PropertyInteger  PropertyType = "integer"
	PropertyDateTime PropertyType = "datetime"
	PropertyDecimal  PropertyType = "decimal"
	PropertyHTML     PropertyType = "html"
	PropertyString   PropertyType = "string"
	PropertyURI      PropertyType = "uri"
)

// IsValid reports whether p is a known property type.
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyBoolean, PropertyID, PropertyInteger, PropertyDateTime,
		PropertyDecimal, PropertyHTML, PropertyString, PropertyURI:
		return true
	default:
		return false
	}
}

// Cardinality is single or multi valued.
type Cardinality string

const (
	CardinalitySingle Cardinality = "single"
	CardinalityMulti  Cardinality = "multi"
)

// Updatability controls when a property may be written.
type Updatability string

const (
	UpdatabilityReadOnly       Updatability = "readonly"
	UpdatabilityReadWrite      Updatability = "readwrite"
	UpdatabilityWhenCheckedOut Updatability = "whencheckedout"
	UpdatabilityOnCreate       Updatability = "oncreate"
)

// PropertyDefinition describes one property of a custom type.
type PropertyDefinition struct {
	ID             string       `json:"id" yaml:"id"`
	LocalName      string       `json:"localName" yaml:"localName"`
	LocalNamespace string       `json:"localNamespace" yaml:"localNamespace"`
	QueryName      string       `json:"queryName" yaml:"queryName"`
	DisplayName    string       `json:"displayName" yaml:"displayName"`
	Description    string       `json:"description" yaml:"description"`
	PropertyType   PropertyType `json:"propertyType" yaml:"propertyType"`
	Cardinality    Cardinality  `json:"cardinality" yaml:"cardinality"`
	Updatability   Updatability `json:"updatability" yaml:"updatability"`
	Inherited      bool         `json:"inherited" yaml:"-"`
	Required       bool         `json:"required" yaml:"required"`
	Queryable      bool         `json:"queryable" yaml:"queryable"`
	Orderable      bool         `json:"orderable" yaml:"orderable"`
}

// TypeDefinition is a custom type to register on the hosted repository.
// Field names on the wire follow the CMIS browser binding.
type TypeDefinition struct {
	ID                  string                        `json:"id" yaml:"id"`
	LocalName           string                        `json:"localName" yaml:"localName"`
	LocalNamespace      string                        `json:"localNamespace" yaml:"localNamespace"`
	QueryName           string                        `json:"queryName" yaml:"queryName"`
	DisplayName         string                        `json:"displayName" yaml:"displayName"`
	Description         string                        `json:"description" yaml:"description"`
	BaseTypeID          BaseTypeID                    `json:"baseId" yaml:"baseId"`
	ParentTypeID        string                        `json:"parentId,omitempty" yaml:"parentId"`
	Creatable           bool                          `json:"creatable" yaml:"creatable"`
	Fileable            bool                          `json:"fileable" yaml:"fileable"`
	Queryable           bool                          `json:"queryable" yaml:"queryable"`
	PropertyDefinitions map[string]PropertyDefinition `json:"propertyDefinitions" yaml:"propertyDefinitions"`
}

// UnmarshalYAML applies the CMIS defaults (creatable, fileable, queryable)
// before decoding, so omitted flags stay true.
func (t *TypeDefinition) UnmarshalYAML(value *yaml.Node) error {
	type plain TypeDefinition
	raw := plain{Creatable: true, Fileable: true, Queryable: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*t = TypeDefinition(raw)
	return nil
}

// UnmarshalJSON applies the same defaults as UnmarshalYAML.
func (t *TypeDefinition) UnmarshalJSON(data []byte) error {
	type plain TypeDefinition
	raw := plain{Creatable: true, Fileable: true, Queryable: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TypeDefinition(raw)
	return nil
}

// UnmarshalYAML defaults properties to queryable.
func (p *PropertyDefinition) UnmarshalYAML(value *yaml.Node) error {
	type plain PropertyDefinition
	raw := plain{Queryable: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = PropertyDefinition(raw)
	return nil
}

// UnmarshalJSON applies the same defaults as UnmarshalYAML.
func (p *PropertyDefinition) UnmarshalJSON(data []byte) error {
	type plain PropertyDefinition
	raw := plain{Queryable: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PropertyDefinition(raw)
	return nil
}

// IsBase reports whether the definition is one of the built-in base types.
func (t TypeDefinition) IsBase() bool {
	return t.ParentTypeID == "" && BaseTypeID(t.ID).IsValid()
}

// Clone returns a deep copy.
func (t TypeDefinition) Clone() TypeDefinition {
	c := t
	if t.PropertyDefinitions != nil {
		c.PropertyDefinitions = make(map[string]PropertyDefinition, len(t.PropertyDefinitions))
		for k, v := range t.PropertyDefinitions {
			c.PropertyDefinitions[k] = v
		}
	}
	return c
}

// IDs returns the ids of defs in order.
func IDs(defs []TypeDefinition) []string {
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	return ids
}

// localPart returns the part of a prefixed id after the colon.
func localPart(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// namespacePart returns the prefix of a prefixed id, or "".
func namespacePart(id string) string {
	if i := strings.Index(id, ":"); i > 0 {
		return id[:i]
	}
	return ""
}
