package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reasv/wfctiled/internal/grid"
	"github.com/reasv/wfctiled/internal/tilemap"
)

// TileSet describes the sprite sheet a Tiled map refers to.
type TileSet struct {
	ImagePath string
	ImageSize grid.Size
	TileSize  grid.Size
	TileCount int
	Columns   int
}

// Validate reports the first missing or non-positive field.
func (ts TileSet) Validate() error {
	switch {
	case ts.ImagePath == "":
		return fmt.Errorf("%w: tileset image path is empty", tilemap.ErrInvalidArgument)
	case ts.TileSize.W <= 0 || ts.TileSize.H <= 0:
		return fmt.Errorf("%w: tileset tile size %s", tilemap.ErrInvalidArgument, ts.TileSize)
	case ts.ImageSize.W <= 0 || ts.ImageSize.H <= 0:
		return fmt.Errorf("%w: tileset image size %s", tilemap.ErrInvalidArgument, ts.ImageSize)
	case ts.TileCount <= 0 || ts.Columns <= 0:
		return fmt.Errorf("%w: tileset needs a positive tile count and column count", tilemap.ErrInvalidArgument)
	}
	return nil
}

type tmxMap struct {
	XMLName          xml.Name   `xml:"map"`
	Version          string     `xml:"version,attr"`
	TiledVersion     string     `xml:"tiledversion,attr"`
	Orientation      string     `xml:"orientation,attr"`
	RenderOrder      string     `xml:"renderorder,attr"`
	CompressionLevel int        `xml:"compressionlevel,attr"`
	Width            int        `xml:"width,attr"`
	Height           int        `xml:"height,attr"`
	TileWidth        int        `xml:"tilewidth,attr"`
	TileHeight       int        `xml:"tileheight,attr"`
	Infinite         int        `xml:"infinite,attr"`
	NextLayerID      int        `xml:"nextlayerid,attr"`
	NextObjectID     int        `xml:"nextobjectid,attr"`
	TileSet          tmxTileSet `xml:"tileset"`
	Layer            tmxLayer   `xml:"layer"`
}

type tmxTileSet struct {
	FirstGID   int      `xml:"firstgid,attr"`
	Name       string   `xml:"name,attr"`
	TileWidth  int      `xml:"tilewidth,attr"`
	TileHeight int      `xml:"tileheight,attr"`
	TileCount  int      `xml:"tilecount,attr"`
	Columns    int      `xml:"columns,attr"`
	Image      tmxImage `xml:"image"`
}

type tmxImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type tmxLayer struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Width  int     `xml:"width,attr"`
	Height int     `xml:"height,attr"`
	Data   tmxData `xml:"data"`
}

// tmxData carries its CSV body as inner XML so row breaks are kept literal.
// The body only ever holds digits, commas and newlines.
type tmxData struct {
	Encoding string `xml:"encoding,attr"`
	CSV      string `xml:",innerxml"`
}

// tiledData renders the layer body. Tiled reserves gid 0 for an empty cell,
// so every value is shifted by one. Rows end with a comma except the last.
func tiledData(g *grid.Grid[uint32]) string {
	var b strings.Builder
	b.WriteByte('\n')
	cells := g.Cells()
	for i, v := range cells {
		b.WriteString(strconv.FormatUint(uint64(v)+1, 10))
		if i < len(cells)-1 {
			b.WriteByte(',')
		}
		if (i+1)%g.Width() == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteTiled writes g as a single-layer orthogonal TMX map that uses ts.
func WriteTiled(w io.Writer, g *grid.Grid[uint32], ts TileSet) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	doc := tmxMap{
		Version:          "1.2",
		TiledVersion:     "1.3.1",
		Orientation:      "orthogonal",
		RenderOrder:      "right-down",
		CompressionLevel: -1,
		Width:            g.Width(),
		Height:           g.Height(),
		TileWidth:        ts.TileSize.W,
		TileHeight:       ts.TileSize.H,
		NextLayerID:      2,
		NextObjectID:     1,
		TileSet: tmxTileSet{
			FirstGID:   1,
			Name:       "default",
			TileWidth:  ts.TileSize.W,
			TileHeight: ts.TileSize.H,
			TileCount:  ts.TileCount,
			Columns:    ts.Columns,
			Image: tmxImage{
				Source: ts.ImagePath,
				Width:  ts.ImageSize.W,
				Height: ts.ImageSize.H,
			},
		},
		Layer: tmxLayer{
			ID:     1,
			Name:   "base",
			Width:  g.Width(),
			Height: g.Height(),
			Data:   tmxData{Encoding: "csv", CSV: tiledData(g)},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("%w: writing tmx: %v", tilemap.ErrIO, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: writing tmx: %v", tilemap.ErrIO, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%w: writing tmx: %v", tilemap.ErrIO, err)
	}
	return nil
}

// SaveTiled writes the TMX map to path.
func SaveTiled(path string, g *grid.Grid[uint32], ts TileSet) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	return saveFile(path, func(w io.Writer) error { return WriteTiled(w, g, ts) })
}
