// Package types loads custom CMIS type definitions.
//
// Definitions come from YAML or JSON files (JSON is read by the same YAML
// decoder) or are built in code. A file holds either a list of types or a
// mapping with a "types" key:
//
//	types:
//	  - id: tst:doctype
//	    baseId: cmis:document
//	    propertyDefinitions:
//	      tst:flag:
//	        propertyType: boolean
//
// Validate fills in the defaults (parentId from baseId, localName from the id
// suffix, single cardinality, readwrite updatability). Every failure is a
// *ParseError matching ErrInvalidDefinition.
package types
