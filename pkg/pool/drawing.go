package pool

import (
	"encoding/json"
	"fmt"
)

// Coordinates are stored in nanometers, Y-up, matching the authoring
// convention of the pool editor. One millimeter is 1e6 units.
const MM int64 = 1_000_000

// Coord is a point in pool coordinate space (nanometers, Y-up).
type Coord struct {
	X int64
	Y int64
}

// UnmarshalJSON decodes the on-disk [x, y] array form.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var v [2]int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	c.X, c.Y = v[0], v[1]
	return nil
}

// MarshalJSON encodes back to the [x, y] array form.
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{c.X, c.Y})
}

// LineSeg is a stroked segment between two points.
type LineSeg struct {
	From  Coord `json:"from"`
	To    Coord `json:"to"`
	Width int64 `json:"width"`
}

// Polygon is a closed outline. Vertices wind in authoring order.
type Polygon struct {
	Vertices []Coord `json:"vertices"`
}

// Text is a placed text primitive. Angle is in degrees, Size is the
// glyph height in pool units.
type Text struct {
	Position Coord  `json:"position"`
	Angle    int    `json:"angle"`
	Size     int64  `json:"size"`
	Text     string `json:"text"`
}

// Drawing groups the graphical primitives of a symbol or package.
type Drawing struct {
	Lines    []LineSeg `json:"lines,omitempty"`
	Polygons []Polygon `json:"polygons,omitempty"`
	Texts    []Text    `json:"texts,omitempty"`
}

// Empty reports whether the drawing has no primitives at all.
func (d *Drawing) Empty() bool {
	return len(d.Lines) == 0 && len(d.Polygons) == 0 && len(d.Texts) == 0
}
