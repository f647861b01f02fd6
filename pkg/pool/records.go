package pool

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// =============================================================================
// Parts
// =============================================================================

// Attribute names one of the inheritable value slots on a part.
type Attribute uint8

const (
	AttrMPN Attribute = iota
	AttrValue
	AttrManufacturer
	AttrDatasheet
	AttrDescription

	numAttributes
)

// attributeNames is indexed by Attribute.
var attributeNames = [numAttributes]string{
	AttrMPN:          "MPN",
	AttrValue:        "Value",
	AttrManufacturer: "Manufacturer",
	AttrDatasheet:    "Datasheet",
	AttrDescription:  "Description",
}

// Attributes lists all part attribute slots in display order.
var Attributes = []Attribute{AttrMPN, AttrValue, AttrManufacturer, AttrDatasheet, AttrDescription}

// String returns the attribute's display name.
func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "Unknown"
}

// AttrValueSlot is one attribute slot on a part: an explicit value plus
// the flag that marks the slot as inherited from the base part. An
// inherited slot's own Value is ignored during resolution.
//
// The on-disk form is a [inherit, value] pair.
type AttrValueSlot struct {
	Inherit bool
	Value   string
}

// UnmarshalJSON decodes the [inherit, value] pair form.
func (s *AttrValueSlot) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("attribute slot: %w", err)
	}
	if err := json.Unmarshal(raw[0], &s.Inherit); err != nil {
		return fmt.Errorf("attribute inherit flag: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.Value); err != nil {
		return fmt.Errorf("attribute value: %w", err)
	}
	return nil
}

// MarshalJSON encodes back to the pair form.
func (s AttrValueSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Inherit, s.Value})
}

// PadMapping binds a package pad to a (gate, pin) of the part's entity.
type PadMapping struct {
	Gate uuid.UUID `json:"gate"`
	Pin  uuid.UUID `json:"pin"`
}

// Part is a orderable component: an entity placed in a package with
// concrete attribute values. A part may derive from a base part, in
// which case attribute slots flagged Inherit resolve through the
// derivation chain.
type Part struct {
	UUID        uuid.UUID                   `json:"uuid"`
	Base        uuid.UUID                   `json:"base,omitempty"`
	Entity      uuid.UUID                   `json:"entity,omitempty"`
	Package     uuid.UUID                   `json:"package,omitempty"`
	Attributes  map[Attribute]AttrValueSlot `json:"-"`
	Tags        []string                    `json:"tags,omitempty"`
	InheritTags bool                        `json:"inherit_tags,omitempty"`
	PadMap      map[uuid.UUID]PadMapping    `json:"pad_map,omitempty"`
}

// partJSON is the wire form of a part; attribute slots are top-level
// keys named after the attribute.
type partJSON struct {
	UUID         uuid.UUID                `json:"uuid"`
	Base         *uuid.UUID               `json:"base,omitempty"`
	Entity       uuid.UUID                `json:"entity,omitempty"`
	Package      uuid.UUID                `json:"package,omitempty"`
	MPN          *AttrValueSlot           `json:"MPN,omitempty"`
	Value        *AttrValueSlot           `json:"value,omitempty"`
	Manufacturer *AttrValueSlot           `json:"manufacturer,omitempty"`
	Datasheet    *AttrValueSlot           `json:"datasheet,omitempty"`
	Description  *AttrValueSlot           `json:"description,omitempty"`
	Tags         []string                 `json:"tags,omitempty"`
	InheritTags  bool                     `json:"inherit_tags,omitempty"`
	PadMap       map[uuid.UUID]PadMapping `json:"pad_map,omitempty"`
}

// UnmarshalJSON decodes the on-disk part form into the slot map.
func (p *Part) UnmarshalJSON(data []byte) error {
	var raw partJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.UUID = raw.UUID
	if raw.Base != nil {
		p.Base = *raw.Base
	}
	p.Entity = raw.Entity
	p.Package = raw.Package
	p.Tags = raw.Tags
	p.InheritTags = raw.InheritTags
	p.PadMap = raw.PadMap
	p.Attributes = make(map[Attribute]AttrValueSlot, int(numAttributes))
	slots := map[Attribute]*AttrValueSlot{
		AttrMPN:          raw.MPN,
		AttrValue:        raw.Value,
		AttrManufacturer: raw.Manufacturer,
		AttrDatasheet:    raw.Datasheet,
		AttrDescription:  raw.Description,
	}
	for attr, slot := range slots {
		if slot != nil {
			p.Attributes[attr] = *slot
		} else {
			p.Attributes[attr] = AttrValueSlot{}
		}
	}
	return nil
}

// HasBase reports whether the part derives from another part.
func (p *Part) HasBase() bool {
	return p.Base != NilUUID
}

// Attr returns the part's own slot for attr (zero slot if absent).
func (p *Part) Attr(attr Attribute) AttrValueSlot {
	return p.Attributes[attr]
}

// =============================================================================
// Entities, Units
// =============================================================================

// Gate is one schematic gate of an entity, bound to a unit.
type Gate struct {
	UUID      uuid.UUID `json:"uuid"`
	Name      string    `json:"name"`
	Suffix    string    `json:"suffix,omitempty"`
	SwapGroup int       `json:"swap_group,omitempty"`
	Unit      uuid.UUID `json:"unit"`
}

// Entity groups the gates of a component and carries its prefix.
type Entity struct {
	UUID         uuid.UUID           `json:"uuid"`
	Name         string              `json:"name"`
	Manufacturer string              `json:"manufacturer,omitempty"`
	Prefix       string              `json:"prefix,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Gates        map[uuid.UUID]*Gate `json:"gates,omitempty"`
}

// Direction classifies a unit pin.
type Direction uint8

const (
	DirInput Direction = iota
	DirOutput
	DirBidirectional
	DirOpenCollector
	DirPowerInput
	DirPowerOutput
	DirPassive
	DirNotConnected

	numDirections
)

// directionTags is the serialized form, directionNames the display form.
// Both are process-wide immutable tables initialized at startup.
var directionTags = [numDirections]string{
	DirInput:         "input",
	DirOutput:        "output",
	DirBidirectional: "bidirectional",
	DirOpenCollector: "open_collector",
	DirPowerInput:    "power_input",
	DirPowerOutput:   "power_output",
	DirPassive:       "passive",
	DirNotConnected:  "not_connected",
}

var directionNames = [numDirections]string{
	DirInput:         "Input",
	DirOutput:        "Output",
	DirBidirectional: "Bidirectional",
	DirOpenCollector: "Open collector",
	DirPowerInput:    "Power input",
	DirPowerOutput:   "Power output",
	DirPassive:       "Passive",
	DirNotConnected:  "Not connected",
}

// String returns the display name ("Open collector").
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "Unknown"
}

// UnmarshalJSON decodes the serialized tag ("open_collector").
func (d *Direction) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	for i, t := range directionTags {
		if t == tag {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pin direction %q", tag)
}

// MarshalJSON encodes the serialized tag.
func (d Direction) MarshalJSON() ([]byte, error) {
	if int(d) < len(directionTags) {
		return json.Marshal(directionTags[d])
	}
	return nil, fmt.Errorf("invalid pin direction %d", d)
}

// Pin is one pin of a unit.
type Pin struct {
	UUID        uuid.UUID `json:"uuid"`
	PrimaryName string    `json:"primary_name"`
	Direction   Direction `json:"direction"`
	AltNames    []string  `json:"names,omitempty"`
}

// Unit is the schematic-level pin collection a symbol depicts.
type Unit struct {
	UUID         uuid.UUID          `json:"uuid"`
	Name         string             `json:"name"`
	Manufacturer string             `json:"manufacturer,omitempty"`
	Pins         map[uuid.UUID]*Pin `json:"pins,omitempty"`
}

// =============================================================================
// Symbols, Packages, Padstacks
// =============================================================================

// Symbol is the drawable schematic representation of a unit.
//
// TextPlacements marks symbols that carry per-orientation text
// positioning; those render once per (mirror, angle) orientation.
type Symbol struct {
	UUID           uuid.UUID `json:"uuid"`
	Name           string    `json:"name"`
	Unit           uuid.UUID `json:"unit"`
	Drawing        Drawing   `json:"drawing"`
	TextPlacements bool      `json:"text_placements,omitempty"`
}

// Pad is a copper pad of a package, referencing its padstack.
type Pad struct {
	UUID     uuid.UUID `json:"uuid"`
	Name     string    `json:"name"`
	Padstack uuid.UUID `json:"padstack,omitempty"`
	Position Coord     `json:"position"`
	SizeX    int64     `json:"size_x,omitempty"`
	SizeY    int64     `json:"size_y,omitempty"`
}

// ModelRef references a 3D model file by pool-relative path.
type ModelRef struct {
	UUID     uuid.UUID `json:"uuid"`
	Filename string    `json:"filename"`
}

// Package is the drawable board-level footprint of a part.
type Package struct {
	UUID         uuid.UUID              `json:"uuid"`
	Name         string                 `json:"name"`
	Manufacturer string                 `json:"manufacturer,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	Pads         map[uuid.UUID]*Pad     `json:"pads,omitempty"`
	Drawing      Drawing                `json:"drawing"`
	Models       map[uuid.UUID]ModelRef `json:"models,omitempty"`
}

// Padstack is the pad geometry template referenced by package pads.
// Its drawing detail is irrelevant to the review; only identity and
// name participate in the closure.
type Padstack struct {
	UUID uuid.UUID `json:"uuid"`
	Name string    `json:"name"`
}
