package repository

import "cmis-harness/feature/types"

// RepositoryInfo is the browser binding repository description.
type RepositoryInfo struct {
	ID                   string `json:"repositoryId"`
	Name                 string `json:"repositoryName"`
	Description          string `json:"repositoryDescription"`
	VendorName           string `json:"vendorName"`
	ProductName          string `json:"productName"`
	ProductVersion       string `json:"productVersion"`
	RootFolderID         string `json:"rootFolderId"`
	CMISVersionSupported string `json:"cmisVersionSupported"`
	RepositoryURL        string `json:"repositoryUrl"`
	RootFolderURL        string `json:"rootFolderUrl"`
}

// TypeChildren is a page of child type definitions.
type TypeChildren struct {
	Types        []types.TypeDefinition `json:"types"`
	HasMoreItems bool                   `json:"hasMoreItems"`
	NumItems     int                    `json:"numItems"`
}

// TypeRecord is the SQL row backing a registered type.
type TypeRecord struct {
	ID           uint   `gorm:"primaryKey"`
	RepositoryID string `gorm:"column:repository_id;size:64;uniqueIndex:idx_repository_type"`
	TypeID       string `gorm:"column:type_id;size:255;uniqueIndex:idx_repository_type"`
	ParentID     string `gorm:"column:parent_id;size:255;index"`
	Definition   string `gorm:"column:definition;type:text"`
}

// TableName overrides the table name used by TypeRecord.
func (TypeRecord) TableName() string {
	return "cmis_types"
}
