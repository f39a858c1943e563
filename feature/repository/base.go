package repository

import "cmis-harness/feature/types"

func prop(id string, pt types.PropertyType, upd types.Updatability, required bool) types.PropertyDefinition {
	return types.PropertyDefinition{
		ID:             id,
		LocalName:      id[len("cmis:"):],
		LocalNamespace: "cmis",
		QueryName:      id,
		DisplayName:    id,
		PropertyType:   pt,
		Cardinality:    types.CardinalitySingle,
		Updatability:   upd,
		Required:       required,
		Queryable:      true,
		Orderable:      true,
	}
}

func commonProperties() map[string]types.PropertyDefinition {
	props := []types.PropertyDefinition{
		prop("cmis:name", types.PropertyString, types.UpdatabilityReadWrite, true),
		prop("cmis:objectId", types.PropertyID, types.UpdatabilityReadOnly, false),
		prop("cmis:objectTypeId", types.PropertyID, types.UpdatabilityOnCreate, true),
		prop("cmis:baseTypeId", types.PropertyID, types.UpdatabilityReadOnly, false),
		prop("cmis:createdBy", types.PropertyString, types.UpdatabilityReadOnly, false),
		prop("cmis:creationDate", types.PropertyDateTime, types.UpdatabilityReadOnly, false),
		prop("cmis:lastModifiedBy", types.PropertyString, types.UpdatabilityReadOnly, false),
		prop("cmis:lastModificationDate", types.PropertyDateTime, types.UpdatabilityReadOnly, false),
	}
	out := make(map[string]types.PropertyDefinition, len(props))
	for _, p := range props {
		out[p.ID] = p
	}
	return out
}

func baseType(id types.BaseTypeID) types.TypeDefinition {
	def := types.TypeDefinition{
		ID:             string(id),
		LocalName:      string(id)[len("cmis:"):],
		LocalNamespace: "cmis",
		QueryName:      string(id),
		DisplayName:    string(id),
		BaseTypeID:     id,
		Creatable:      true,
		Fileable:       true,
		Queryable:      true,
	}

	switch id {
	case types.BaseRelationship:
		def.Fileable = false
	case types.BaseSecondary:
		def.Creatable = false
		def.Fileable = false
		def.PropertyDefinitions = map[string]types.PropertyDefinition{}
		return def
	}

	def.PropertyDefinitions = commonProperties()
	switch id {
	case types.BaseDocument:
		for _, p := range []types.PropertyDefinition{
			prop("cmis:isLatestVersion", types.PropertyBoolean, types.UpdatabilityReadOnly, false),
			prop("cmis:contentStreamLength", types.PropertyInteger, types.UpdatabilityReadOnly, false),
			prop("cmis:contentStreamMimeType", types.PropertyString, types.UpdatabilityReadOnly, false),
		} {
			def.PropertyDefinitions[p.ID] = p
		}
	case types.BaseFolder:
		for _, p := range []types.PropertyDefinition{
			prop("cmis:parentId", types.PropertyID, types.UpdatabilityReadOnly, false),
			prop("cmis:path", types.PropertyString, types.UpdatabilityReadOnly, false),
		} {
			def.PropertyDefinitions[p.ID] = p
		}
	case types.BaseRelationship:
		for _, p := range []types.PropertyDefinition{
			prop("cmis:sourceId", types.PropertyID, types.UpdatabilityOnCreate, true),
			prop("cmis:targetId", types.PropertyID, types.UpdatabilityOnCreate, true),
		} {
			def.PropertyDefinitions[p.ID] = p
		}
	case types.BasePolicy:
		def.PropertyDefinitions["cmis:policyText"] = prop("cmis:policyText", types.PropertyString, types.UpdatabilityReadWrite, false)
	}
	return def
}

// baseTypesFor returns the base types a CMIS version defines. Item and
// secondary types arrived with 1.1.
func baseTypesFor(version string) []types.TypeDefinition {
	ids := types.BaseTypes
	if version == "1.0" {
		ids = ids[:4]
	}
	out := make([]types.TypeDefinition, 0, len(ids))
	for _, id := range ids {
		out = append(out, baseType(id))
	}
	return out
}
