// Package pool models a component-library pool: typed, UUID-identified
// records (parts, entities, units, symbols, packages, padstacks, 3D
// models) loaded from a directory of JSON files, together with the
// relations a review needs — the path→record lookup table and the flat
// dependency-edge relation between typed refs.
//
// Records are immutable snapshots for the duration of one run. Nothing
// in this package mutates a loaded pool.
package pool

import "github.com/google/uuid"

// =============================================================================
// Record Types
// =============================================================================

// RecordType identifies one of the closed set of record kinds in a pool.
type RecordType uint8

const (
	TypePart RecordType = iota
	TypeEntity
	TypeUnit
	TypeSymbol
	TypePackage
	TypeModel
	TypePadstack

	numRecordTypes
)

// typeDescr carries per-type metadata: the serialized tag, the display
// name used in report headings, and the canonical ordering rank used by
// the closure display tree.
type typeDescr struct {
	tag     string
	display string
	order   int
}

// typeDescrs is indexed by RecordType. Order ranks fix the rendering
// order of closure rows across type categories independent of discovery
// order: part, entity, unit, symbol, package, model, padstack.
var typeDescrs = [numRecordTypes]typeDescr{
	TypePart:     {"part", "Part", 0},
	TypeEntity:   {"entity", "Entity", 1},
	TypeUnit:     {"unit", "Unit", 2},
	TypeSymbol:   {"symbol", "Symbol", 3},
	TypePackage:  {"package", "Package", 4},
	TypeModel:    {"model_3d", "3D model", 5},
	TypePadstack: {"padstack", "Padstack", 6},
}

// String returns the serialized tag ("part", "entity", ..., "model_3d").
func (t RecordType) String() string {
	if int(t) < len(typeDescrs) {
		return typeDescrs[t].tag
	}
	return "unknown"
}

// Display returns the human-readable type name used in the report.
func (t RecordType) Display() string {
	if int(t) < len(typeDescrs) {
		return typeDescrs[t].display
	}
	return "Unknown"
}

// Order returns the canonical type-order rank for display trees.
func (t RecordType) Order() int {
	if int(t) < len(typeDescrs) {
		return typeDescrs[t].order
	}
	return -1
}

// ParseType maps a serialized tag back to its RecordType.
func ParseType(tag string) (RecordType, bool) {
	for t, d := range typeDescrs {
		if d.tag == tag {
			return RecordType(t), true
		}
	}
	return 0, false
}

// =============================================================================
// Refs and Edges
// =============================================================================

// NilUUID is the distinguished zero UUID marking "no base" on a part.
var NilUUID = uuid.Nil

// RecordRef identifies a record by (type, uuid). It is the unit of
// identity throughout closures and maps; two refs are equal iff both
// fields match, so RecordRef is usable as a map key.
type RecordRef struct {
	Type RecordType
	UUID uuid.UUID
}

// Ref is shorthand for constructing a RecordRef.
func Ref(t RecordType, id uuid.UUID) RecordRef {
	return RecordRef{Type: t, UUID: id}
}

// String renders the ref as "type uuid" for log and warning lines.
func (r RecordRef) String() string {
	return r.Type.String() + " " + r.UUID.String()
}

// DependencyEdge is a directed edge meaning "From references/uses To"
// (part→entity, part→package, entity→unit, package→padstack). The edge
// set is a flat relation; a well-formed library has no cycles, but the
// closure engine must not assume acyclicity of loaded data.
type DependencyEdge struct {
	From RecordRef
	To   RecordRef
}

// PathEntry is one row of the path→record lookup table. A file may map
// to zero records (an unmodeled path) or, in a malformed pool, to more
// than one.
type PathEntry struct {
	Ref  RecordRef
	Name string
}
