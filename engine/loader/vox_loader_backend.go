package loader

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-vox/engine/model"
)

// Chunk identifiers of the MagicaVoxel format.
const (
	voxMagic     = "VOX "
	chunkMain    = "MAIN"
	chunkPack    = "PACK"
	chunkSize    = "SIZE"
	chunkXYZI    = "XYZI"
	chunkRGBA    = "RGBA"
	chunkHeader  = 12
	paletteBytes = 256 * 4
)

// voxLoaderBackendImpl is the implementation of voxLoaderBackend.
type voxLoaderBackendImpl struct{}

// voxLoaderBackend is a loaderBackend implementation for MagicaVoxel .vox files.
type voxLoaderBackend interface {
	loaderBackend
}

var _ voxLoaderBackend = &voxLoaderBackendImpl{}

// newVoxLoaderBackend creates a new .vox loader backend.
//
// Returns:
//   - voxLoaderBackend: the loader backend for .vox files
func newVoxLoaderBackend() voxLoaderBackend {
	return &voxLoaderBackendImpl{}
}

func (b *voxLoaderBackendImpl) Decode(r io.Reader) (*model.ImportedScene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseVox(data)
}

// chunk is one RIFF-style chunk: a four-letter id, its own content and its children.
type chunk struct {
	id       string
	content  []byte
	children []byte
}

// chunkReader walks a sequence of chunks in a byte slice.
type chunkReader struct {
	data []byte
	pos  int
}

func (cr *chunkReader) done() bool {
	return cr.pos >= len(cr.data)
}

func (cr *chunkReader) next() (chunk, error) {
	if len(cr.data)-cr.pos < chunkHeader {
		return chunk{}, fmt.Errorf("%w: truncated chunk header at offset %d", ErrInvalidVoxFile, cr.pos)
	}
	hdr := cr.data[cr.pos : cr.pos+chunkHeader]
	id := string(hdr[0:4])
	contentLen := int(int32(binary.LittleEndian.Uint32(hdr[4:8])))
	childrenLen := int(int32(binary.LittleEndian.Uint32(hdr[8:12])))
	if contentLen < 0 || childrenLen < 0 {
		return chunk{}, fmt.Errorf("%w: negative size in chunk %q", ErrInvalidVoxFile, id)
	}

	start := cr.pos + chunkHeader
	if contentLen > len(cr.data)-start || childrenLen > len(cr.data)-start-contentLen {
		return chunk{}, fmt.Errorf("%w: chunk %q overruns file", ErrInvalidVoxFile, id)
	}
	c := chunk{
		id:       id,
		content:  cr.data[start : start+contentLen],
		children: cr.data[start+contentLen : start+contentLen+childrenLen],
	}
	cr.pos = start + contentLen + childrenLen
	return c, nil
}

// parseVox decodes a whole .vox file. Chunks other than PACK, SIZE, XYZI and RGBA are skipped.
//
// Parameters:
//   - data: the complete file contents
//
// Returns:
//   - *model.ImportedScene: the decoded sub-models and palette
//   - error: ErrInvalidVoxFile (wrapped) when the data is malformed
func parseVox(data []byte) (*model.ImportedScene, error) {
	if len(data) < 8 || string(data[0:4]) != voxMagic {
		return nil, fmt.Errorf("%w: missing %q header", ErrInvalidVoxFile, voxMagic)
	}

	top := &chunkReader{data: data[8:]}
	if top.done() {
		return nil, fmt.Errorf("%w: missing %s chunk", ErrInvalidVoxFile, chunkMain)
	}
	main, err := top.next()
	if err != nil {
		return nil, err
	}
	if main.id != chunkMain {
		return nil, fmt.Errorf("%w: expected %s chunk, got %q", ErrInvalidVoxFile, chunkMain, main.id)
	}

	scene := &model.ImportedScene{Palette: model.DefaultPalette()}
	// SIZE precedes the XYZI it describes.
	pendingSize := false

	children := &chunkReader{data: main.children}
	for !children.done() {
		c, err := children.next()
		if err != nil {
			return nil, err
		}

		switch c.id {
		case chunkPack:
			// Model count is implied by the SIZE/XYZI pairs.
		case chunkSize:
			if len(c.content) < 12 {
				return nil, fmt.Errorf("%w: short %s chunk", ErrInvalidVoxFile, chunkSize)
			}
			scene.Models = append(scene.Models, model.ImportedModel{
				Size: [3]uint32{
					binary.LittleEndian.Uint32(c.content[0:4]),
					binary.LittleEndian.Uint32(c.content[4:8]),
					binary.LittleEndian.Uint32(c.content[8:12]),
				},
			})
			pendingSize = true
		case chunkXYZI:
			if !pendingSize {
				return nil, fmt.Errorf("%w: %s chunk without preceding %s", ErrInvalidVoxFile, chunkXYZI, chunkSize)
			}
			voxels, err := parseXYZI(c.content)
			if err != nil {
				return nil, err
			}
			scene.Models[len(scene.Models)-1].Voxels = voxels
			pendingSize = false
		case chunkRGBA:
			if len(c.content) < paletteBytes {
				return nil, fmt.Errorf("%w: short %s chunk", ErrInvalidVoxFile, chunkRGBA)
			}
			scene.Palette = parseRGBA(c.content)
		}
	}
	return scene, nil
}

func parseXYZI(content []byte) ([]model.Voxel, error) {
	if len(content) < 4 {
		return nil, fmt.Errorf("%w: short %s chunk", ErrInvalidVoxFile, chunkXYZI)
	}
	n := int(binary.LittleEndian.Uint32(content[0:4]))
	body := content[4:]
	if n < 0 || n > len(body)/4 {
		return nil, fmt.Errorf("%w: %s declares %d voxels in %d bytes", ErrInvalidVoxFile, chunkXYZI, n, len(body))
	}

	voxels := make([]model.Voxel, n)
	for i := range voxels {
		v := body[i*4 : i*4+4]
		voxels[i] = model.Voxel{X: v[0], Y: v[1], Z: v[2], ColorIndex: v[3]}
	}
	return voxels, nil
}

// parseRGBA reads a stored palette. Entry k describes color index k+1; the last entry
// has no color index and is dropped.
func parseRGBA(content []byte) model.Palette {
	var p model.Palette
	for k := 0; k < 255; k++ {
		e := content[k*4 : k*4+4]
		p[k+1].R, p[k+1].G, p[k+1].B, p[k+1].A = e[0], e[1], e[2], e[3]
	}
	return p
}
