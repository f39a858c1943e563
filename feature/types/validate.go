package types

import "fmt"

// Validate checks def and fills in defaults in place.
// source and path locate def in error messages; path may be empty.
func Validate(def *TypeDefinition, source, path string) error {
	at := func(field string) string {
		if path == "" {
			return field
		}
		return path + "." + field
	}

	if def.ID == "" {
		return fieldErr(source, at("id"), "is required")
	}
	if def.BaseTypeID == "" {
		return fieldErr(source, at("baseId"), "is required")
	}
	if !def.BaseTypeID.IsValid() {
		return fieldErr(source, at("baseId"), "unknown base type %q", def.BaseTypeID)
	}
	if BaseTypeID(def.ID).IsValid() {
		return fieldErr(source, at("id"), "%q is a base type and cannot be redefined", def.ID)
	}
	if def.ParentTypeID == "" {
		def.ParentTypeID = string(def.BaseTypeID)
	}
	if def.ParentTypeID == def.ID {
		return fieldErr(source, at("parentId"), "type %q cannot be its own parent", def.ID)
	}
	if def.LocalName == "" {
		def.LocalName = localPart(def.ID)
	}
	if def.LocalNamespace == "" {
		def.LocalNamespace = namespacePart(def.ID)
	}
	if def.QueryName == "" {
		def.QueryName = def.ID
	}
	if def.DisplayName == "" {
		def.DisplayName = def.ID
	}

	if def.PropertyDefinitions == nil {
		def.PropertyDefinitions = map[string]PropertyDefinition{}
	}
	for key, prop := range def.PropertyDefinitions {
		field := at(fmt.Sprintf("propertyDefinitions.%s", key))
		if err := validateProperty(&prop, key, source, field); err != nil {
			return err
		}
		if prop.LocalNamespace == "" {
			prop.LocalNamespace = def.LocalNamespace
		}
		def.PropertyDefinitions[key] = prop
	}
	return nil
}

func validateProperty(prop *PropertyDefinition, key, source, field string) error {
	switch {
	case prop.ID == "" && key == "":
		return fieldErr(source, field+".id", "is required")
	case prop.ID == "":
		prop.ID = key
	case key != "" && prop.ID != key:
		return fieldErr(source, field+".id", "%q does not match its key", prop.ID)
	}

	if prop.PropertyType == "" {
		return fieldErr(source, field+".propertyType", "is required")
	}
	if !prop.PropertyType.IsValid() {
		return fieldErr(source, field+".propertyType", "unknown property type %q", prop.PropertyType)
	}

	switch prop.Cardinality {
	case "":
		prop.Cardinality = CardinalitySingle
	case CardinalitySingle, CardinalityMulti:
	default:
		return fieldErr(source, field+".cardinality", "unknown cardinality %q", prop.Cardinality)
	}

	switch prop.Updatability {
	case "":
		prop.Updatability = UpdatabilityReadWrite
	case UpdatabilityReadOnly, UpdatabilityReadWrite, UpdatabilityWhenCheckedOut, UpdatabilityOnCreate:
	default:
		return fieldErr(source, field+".updatability", "unknown updatability %q", prop.Updatability)
	}

	if prop.LocalName == "" {
		prop.LocalName = localPart(prop.ID)
	}
	if prop.QueryName == "" {
		prop.QueryName = prop.ID
	}
	if prop.DisplayName == "" {
		prop.DisplayName = prop.ID
	}
	return nil
}
