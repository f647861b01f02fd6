package pool

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// record subdirectories scanned by Load, in scan order.
var recordDirs = []struct {
	dir string
	typ RecordType
}{
	{"parts", TypePart},
	{"entities", TypeEntity},
	{"units", TypeUnit},
	{"symbols", TypeSymbol},
	{"packages", TypePackage},
	{"padstacks", TypePadstack},
}

// Load reads a pool from dir. An unreadable pool root is a fatal error;
// individual malformed record files become Warnings on the returned
// pool so that a review can still cover the rest of the library.
func Load(dir string) (*Pool, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	p := &Pool{
		Base:          dir,
		Parts:         make(map[uuid.UUID]*Part),
		Entities:      make(map[uuid.UUID]*Entity),
		Units:         make(map[uuid.UUID]*Unit),
		Symbols:       make(map[uuid.UUID]*Symbol),
		Packages:      make(map[uuid.UUID]*Package),
		Padstacks:     make(map[uuid.UUID]*Padstack),
		PathTable:     make(map[string][]PathEntry),
		SymbolsByUnit: make(map[uuid.UUID][]*Symbol),
		names:         make(map[RecordRef]string),
		paths:         make(map[RecordRef]string),
	}

	for _, rd := range recordDirs {
		if err := p.loadDir(rd.dir, rd.typ); err != nil {
			return nil, err
		}
	}

	p.indexNames()
	p.buildEdges()
	p.indexModels()

	return p, nil
}

// loadDir walks one record subdirectory and decodes every *.json file.
// A missing subdirectory is fine; small pools do not carry every type.
func (p *Pool) loadDir(sub string, typ RecordType) error {
	root := filepath.Join(p.Base, sub)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, err := filepath.Rel(p.Base, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			p.warnf("%s: %v", rel, err)
			return nil
		}
		if err := p.decodeRecord(typ, rel, data); err != nil {
			p.warnf("%s: %v", rel, err)
		}
		return nil
	})
}

// decodeRecord decodes one record file and registers it in the record
// table and the path table.
func (p *Pool) decodeRecord(typ RecordType, rel string, data []byte) error {
	var (
		ref  RecordRef
		name string
	)
	switch typ {
	case TypePart:
		var r Part
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		if r.UUID == NilUUID {
			return fmt.Errorf("part without uuid")
		}
		p.Parts[r.UUID] = &r
		ref = Ref(TypePart, r.UUID)
		// Part names resolve through the base chain; filled by indexNames.
	case TypeEntity:
		var r Entity
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.Entities[r.UUID] = &r
		ref, name = Ref(TypeEntity, r.UUID), r.Name
	case TypeUnit:
		var r Unit
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.Units[r.UUID] = &r
		ref, name = Ref(TypeUnit, r.UUID), r.Name
	case TypeSymbol:
		var r Symbol
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.Symbols[r.UUID] = &r
		p.SymbolsByUnit[r.Unit] = append(p.SymbolsByUnit[r.Unit], &r)
		ref, name = Ref(TypeSymbol, r.UUID), r.Name
	case TypePackage:
		var r Package
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.Packages[r.UUID] = &r
		ref, name = Ref(TypePackage, r.UUID), r.Name
	case TypePadstack:
		var r Padstack
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.Padstacks[r.UUID] = &r
		ref, name = Ref(TypePadstack, r.UUID), r.Name
	default:
		return fmt.Errorf("unsupported record type %s", typ)
	}

	if prev, ok := p.paths[ref]; ok {
		p.warnf("%s: duplicate record %s (already loaded from %s)", rel, ref, prev)
	}
	if name != "" {
		p.names[ref] = name
	}
	p.paths[ref] = rel
	p.PathTable[rel] = append(p.PathTable[rel], PathEntry{Ref: ref, Name: name})
	return nil
}

// indexNames fills part display names (resolved MPN) and back-fills the
// path table rows registered before the name was known.
func (p *Pool) indexNames() {
	for id, part := range p.Parts {
		ref := Ref(TypePart, id)
		name := p.resolvedAttr(part, AttrMPN)
		p.names[ref] = name
		if path, ok := p.paths[ref]; ok {
			rows := p.PathTable[path]
			for i := range rows {
				if rows[i].Ref == ref {
					rows[i].Name = name
				}
			}
		}
	}
}

// buildEdges derives the flat dependency relation from the loaded
// records: part→entity, part→package, entity→unit, package→padstack.
func (p *Pool) buildEdges() {
	add := func(from, to RecordRef) {
		p.Edges = append(p.Edges, DependencyEdge{From: from, To: to})
	}

	for id, part := range p.Parts {
		from := Ref(TypePart, id)
		if part.Entity != NilUUID {
			add(from, Ref(TypeEntity, part.Entity))
		}
		if part.Package != NilUUID {
			add(from, Ref(TypePackage, part.Package))
		}
	}
	for id, ent := range p.Entities {
		from := Ref(TypeEntity, id)
		seen := make(map[uuid.UUID]bool)
		for _, gate := range ent.Gates {
			if gate.Unit != NilUUID && !seen[gate.Unit] {
				seen[gate.Unit] = true
				add(from, Ref(TypeUnit, gate.Unit))
			}
		}
	}
	for id, pkg := range p.Packages {
		from := Ref(TypePackage, id)
		seen := make(map[uuid.UUID]bool)
		for _, pad := range pkg.Pads {
			if pad.Padstack != NilUUID && !seen[pad.Padstack] {
				seen[pad.Padstack] = true
				add(from, Ref(TypePadstack, pad.Padstack))
			}
		}
	}

	// Deterministic relation order for fixed input.
	sort.Slice(p.Edges, func(i, j int) bool {
		a, b := p.Edges[i], p.Edges[j]
		if a.From.Type != b.From.Type {
			return a.From.Type < b.From.Type
		}
		if c := cmpUUID(a.From.UUID, b.From.UUID); c != 0 {
			return c < 0
		}
		if a.To.Type != b.To.Type {
			return a.To.Type < b.To.Type
		}
		return cmpUUID(a.To.UUID, b.To.UUID) < 0
	})
}

// indexModels registers 3D model files in the path table. Model files
// are identified by path only; they carry the nil UUID, matching the
// model rows of the review's display tree.
func (p *Pool) indexModels() {
	seen := make(map[string]bool)
	for _, pkg := range p.Packages {
		for _, m := range pkg.Models {
			rel := filepath.ToSlash(m.Filename)
			if rel == "" || seen[rel] {
				continue
			}
			seen[rel] = true
			p.PathTable[rel] = append(p.PathTable[rel], PathEntry{
				Ref: Ref(TypeModel, NilUUID),
			})
		}
	}
}

// ModelPaths returns the model file paths referenced by a package, in
// deterministic order.
func (p *Pool) ModelPaths(pkg uuid.UUID) []string {
	record, ok := p.Packages[pkg]
	if !ok {
		return nil
	}
	var out []string
	for _, m := range record.Models {
		if m.Filename != "" {
			out = append(out, filepath.ToSlash(m.Filename))
		}
	}
	sort.Strings(out)
	return out
}

func (p *Pool) warnf(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}
