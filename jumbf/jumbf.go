// Package jumbf implements a minimal JPEG Universal Metadata Box Format
// (ISO/IEC 19566-5) container: a single "jumb" superbox holding a "jumd"
// description box (tagged with the C2PA manifest-store UUID) followed by a
// "bfdb" binary-format data box carrying the COSE_Sign1 bytes. This is the
// C2PA manifest store container.
package jumbf

import (
	"encoding/binary"
	"fmt"

	"github.com/encypherai/c2patext/c2paerr"
)

// Box type tags, 4 ASCII bytes each, per ISO/IEC 19566-5.
var (
	TypeSuperbox    = [4]byte{'j', 'u', 'm', 'b'}
	TypeDescription = [4]byte{'j', 'u', 'm', 'd'}
	TypeContent     = [4]byte{'b', 'f', 'd', 'b'}
)

// ManifestStoreUUID identifies a C2PA manifest store description box.
// Value per ISO/IEC 19566-5 Annex B / C2PA spec.
var ManifestStoreUUID = [16]byte{
	0x63, 0x32, 0x70, 0x61, 0x00, 0x11, 0x00, 0x10,
	0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

const descriptionLabel = "c2pa.signature"

// toggle byte: bit0 = requestable, bit1 = label present.
const descriptionToggle = 0x03

// PackManifestStore wraps coseBytes into a single-box JUMBF manifest store.
func PackManifestStore(coseBytes []byte) []byte {
	desc := packDescriptionBox()
	content := packBox(TypeContent, coseBytes)
	body := append(desc, content...)
	return packBox(TypeSuperbox, body)
}

func packDescriptionBox() []byte {
	body := make([]byte, 0, 16+1+len(descriptionLabel)+1)
	body = append(body, ManifestStoreUUID[:]...)
	body = append(body, descriptionToggle)
	body = append(body, []byte(descriptionLabel)...)
	body = append(body, 0x00)
	return packBox(TypeDescription, body)
}

func packBox(typ [4]byte, body []byte) []byte {
	size := uint32(8 + len(body))
	out := make([]byte, 0, size)
	sizeBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(sizeBuf, size)
	out = append(out, sizeBuf...)
	out = append(out, typ[:]...)
	out = append(out, body...)
	return out
}

// UnpackManifestStore inverts PackManifestStore, returning the COSE_Sign1
// bytes carried in the content box.
func UnpackManifestStore(b []byte) ([]byte, error) {
	const op = "jumbf.UnpackManifestStore"

	size, typ, body, _, err := readBox(b)
	if err != nil {
		return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, err)
	}
	if typ != TypeSuperbox {
		return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, fmt.Errorf("expected superbox %q, got %q", TypeSuperbox, typ))
	}
	if int(size) != len(b) {
		return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, fmt.Errorf("superbox declares %d bytes, got %d", size, len(b)))
	}

	rest := body
	sawDescription := false
	for len(rest) > 0 {
		boxSize, boxType, boxBody, consumed, err := readBox(rest)
		if err != nil {
			return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, err)
		}
		switch boxType {
		case TypeDescription:
			if err := validateDescriptionBox(boxBody); err != nil {
				return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, err)
			}
			sawDescription = true
		case TypeContent:
			if !sawDescription {
				return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, fmt.Errorf("content box before description box"))
			}
			out := make([]byte, len(boxBody))
			copy(out, boxBody)
			return out, nil
		default:
			// unrecognized child box: skip per JUMBF's extensibility rules.
		}
		_ = boxSize
		rest = rest[consumed:]
	}
	return nil, c2paerr.New(op, c2paerr.KindCorruptedWrapper, fmt.Errorf("no content box found"))
}

func validateDescriptionBox(body []byte) error {
	if len(body) < 17 {
		return fmt.Errorf("description box too short: %d bytes", len(body))
	}
	var uuid [16]byte
	copy(uuid[:], body[:16])
	if uuid != ManifestStoreUUID {
		return fmt.Errorf("unexpected description box UUID %x", uuid)
	}
	return nil
}

// readBox parses one box at the start of b, returning its declared size,
// 4-byte type, content body, and the number of bytes consumed (== size,
// except for the size==0 "extends to end of buffer" case).
func readBox(b []byte) (size uint32, typ [4]byte, body []byte, consumed int, err error) {
	if len(b) < 8 {
		return 0, typ, nil, 0, fmt.Errorf("buffer too short for box header: %d bytes", len(b))
	}
	size = binary.BigEndian.Uint32(b[0:4])
	copy(typ[:], b[4:8])

	switch {
	case size == 0:
		return uint32(len(b)), typ, b[8:], len(b), nil
	case size == 1:
		return 0, typ, nil, 0, fmt.Errorf("64-bit extended box sizes are not supported")
	case size < 8:
		return 0, typ, nil, 0, fmt.Errorf("invalid box size %d: minimum is 8", size)
	case int(size) > len(b):
		return 0, typ, nil, 0, fmt.Errorf("box declares %d bytes, only %d available", size, len(b))
	default:
		return size, typ, b[8:size], int(size), nil
	}
}
