// Package schemaguard checks that an application's property-to-field mapping
// agrees with the schema of a Solr-style search index.
//
// Standalone validation needs no server:
//
//	s, err := schemaguard.ParseSchemaXML(f)
//	m, err := schemaguard.NewMapping().
//		Document("Product").
//		Property("ID", "id").UniqueKey().
//		Property("Name", "name_t").
//		Build()
//	errs, err := schemaguard.Validate(s, m)
//
// Client stores named schema snapshots in Valkey or Redis and validates
// mappings against them.
package schemaguard
