// Package png implements the recorder's auxiliary codecs (§4.G): a
// minimal RGBA PNG encoder built on stored (uncompressed) zlib blocks,
// and the raster op's data URI embedding. CRC32 and Adler-32 are the
// standard library's hash/crc32 and hash/adler32 — the spec calls this
// codec "trivial to produce without any compression library" and a
// checksum primitive is exactly the kind of concern the corpus itself
// reaches for in the standard library rather than a dependency.
package png

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"hash/crc32"
	"image"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// maxStoredBlock is the zlib stored-block payload ceiling (a 16-bit
// length field).
const maxStoredBlock = 65535

// Encode writes img as a valid PNG: signature, IHDR (color type 6,
// depth 8), one IDAT holding a zlib stream of stored blocks, IEND.
// img.Pix is written as is, so its bytes are taken as straight
// (non-premultiplied) RGBA.
func Encode(img *image.RGBA) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png: empty image %dx%d", w, h)
	}

	var out bytes.Buffer
	out.Write(pngSignature)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = 8  // bit depth
	ihdr[9] = 6  // color type: RGBA
	ihdr[10] = 0 // compression
	ihdr[11] = 0 // filter
	ihdr[12] = 0 // interlace
	writeChunk(&out, "IHDR", ihdr)

	raw := filterScanlines(img, w, h)
	writeChunk(&out, "IDAT", storedZlib(raw))

	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

// filterScanlines prepends filter-type 0 (None) to each scanline, the
// layout a zlib stream of raw pixel data must have in PNG.
func filterScanlines(img *image.RGBA, w, h int) []byte {
	stride := img.Stride
	out := make([]byte, 0, h*(1+w*4))
	for y := 0; y < h; y++ {
		out = append(out, 0) // filter type None
		row := img.Pix[y*stride : y*stride+w*4]
		out = append(out, row...)
	}
	return out
}

// storedZlib wraps data in a zlib stream (CMF 0x78, FLG 0x01, trailing
// Adler-32) whose only deflate blocks are uncompressed stored blocks,
// each at most maxStoredBlock bytes (§4.G, §9 "PNG simplicity").
func storedZlib(data []byte) []byte {
	var out bytes.Buffer
	out.WriteByte(0x78)
	out.WriteByte(0x01)

	for offset := 0; offset < len(data) || offset == 0 && len(data) == 0; {
		end := offset + maxStoredBlock
		if end > len(data) {
			end = len(data)
		}
		block := data[offset:end]
		final := end >= len(data)

		if final {
			out.WriteByte(1)
		} else {
			out.WriteByte(0)
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint16(lenBuf[0:2], uint16(len(block)))
		binary.LittleEndian.PutUint16(lenBuf[2:4], ^uint16(len(block)))
		out.Write(lenBuf[:])
		out.Write(block)

		offset = end
		if len(data) == 0 {
			break
		}
	}

	sum := adler32.Checksum(data)
	var sumBuf [4]byte
	binary.BigEndian.PutUint32(sumBuf[:], sum)
	out.Write(sumBuf[:])
	return out.Bytes()
}

func writeChunk(out *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out.Write(lenBuf[:])

	crcInput := append([]byte(typ), data...)
	out.Write(crcInput)

	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(crcInput))
	out.Write(crcBuf[:])
}

// DataURI PNG-encodes img and returns it as a "data:image/png;base64,…"
// string, the embedding the raster op uses (§3 raster, §4.G).
func DataURI(img *image.RGBA) (string, error) {
	data, err := Encode(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
