// Package repository is the application hosted by the embedded server.
//
// It answers the small part of the CMIS browser binding the harness and its
// sessions need: repository infos, type definitions, type children and type
// creation. The six base types are always present (four under CMIS 1.0);
// custom types live in a Store, either in memory or in a SQL table through
// GORM.
//
// # HTTP Endpoints
//
// Relative to the context path:
//
//   - GET  /browser : every repository info keyed by id.
//   - GET  /browser/:repo?cmisselector=repositoryInfo
//   - GET  /browser/:repo?cmisselector=typeDefinition&typeId=...
//   - GET  /browser/:repo?cmisselector=typeChildren[&typeId=...][&includePropertyDefinitions=true]
//   - POST /browser/:repo with form cmisaction=createType&type=<json>
//
// Errors use the browser binding shape {"exception": ..., "message": ...}:
// 404 objectNotFound, 409 constraint, 400 invalidArgument.
package repository
