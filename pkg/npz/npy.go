package npz

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func decodeUint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func decodeUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

var npyMagic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

// decodeNpy parses one .npy payload (magic, version, header dict, raw data)
// grounded on other_examples/ariannamethod-nanollama__npy.go's header
// parsing idiom, generalized from 2D-only shapes to arbitrary rank.
func decodeNpy(name string, buf []byte) (*Array, error) {
	if len(buf) < 10 || string(buf[:6]) != string(npyMagic) {
		return nil, fmt.Errorf("npz: %s: not an NPY payload (bad magic)", name)
	}
	major := buf[6]
	pos := 8
	var headerLen int
	if major == 1 {
		headerLen = int(binary.LittleEndian.Uint16(buf[pos : pos+2]))
		pos += 2
	} else {
		headerLen = int(binary.LittleEndian.Uint32(buf[pos : pos+4]))
		pos += 4
	}
	if pos+headerLen > len(buf) {
		return nil, fmt.Errorf("npz: %s: truncated NPY header", name)
	}
	header := string(buf[pos : pos+headerLen])
	pos += headerLen

	descr, err := parseDescr(header)
	if err != nil {
		return nil, fmt.Errorf("npz: %s: %w", name, err)
	}
	fortran := parseFortranOrder(header)
	shape, err := parseShape(header)
	if err != nil {
		return nil, fmt.Errorf("npz: %s: %w", name, err)
	}

	return &Array{
		Name:         name,
		DType:        descr,
		Shape:        shape,
		FortranOrder: fortran,
		Raw:          buf[pos:],
	}, nil
}

// parseDescr extracts the dtype from a header dict string's 'descr' entry,
// e.g. "'descr': '<f4'" -> {Kind: 'f', Width: 4}.
func parseDescr(header string) (DType, error) {
	value, err := extractStringValue(header, "descr")
	if err != nil {
		return DType{}, err
	}
	if len(value) < 2 {
		return DType{}, fmt.Errorf("malformed descr %q", value)
	}
	body := value
	if body[0] == '<' || body[0] == '>' || body[0] == '=' || body[0] == '|' {
		body = body[1:]
	}
	if len(body) < 1 {
		return DType{}, fmt.Errorf("malformed descr %q", value)
	}
	kind := body[0]
	numStr := body[1:]
	n, convErr := strconv.Atoi(numStr)
	if convErr != nil {
		return DType{}, fmt.Errorf("malformed descr %q", value)
	}
	width := n
	if kind == 'U' {
		width = n * 4 // numpy stores unicode as UCS-4
	}
	return DType{Descr: value, Kind: kind, Width: width}, nil
}

// parseFortranOrder extracts the boolean 'fortran_order' entry.
func parseFortranOrder(header string) bool {
	idx := strings.Index(header, "'fortran_order'")
	if idx < 0 {
		return false
	}
	rest := header[idx:]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return false
	}
	rest = strings.TrimSpace(rest[colon+1:])
	return strings.HasPrefix(rest, "True")
}

// parseShape extracts the 'shape' tuple entry, e.g. "(10475, 3)" -> [10475,
// 3], "(16,)" -> [16], "()" -> [] (0-d scalar array).
func parseShape(header string) ([]int, error) {
	idx := strings.Index(header, "'shape'")
	if idx < 0 {
		return nil, fmt.Errorf("no 'shape' entry in header")
	}
	rest := header[idx:]
	open := strings.Index(rest, "(")
	if open < 0 {
		return nil, fmt.Errorf("malformed shape entry")
	}
	rest = rest[open+1:]
	closeIdx := strings.Index(rest, ")")
	if closeIdx < 0 {
		return nil, fmt.Errorf("malformed shape entry")
	}
	tuple := strings.TrimSpace(rest[:closeIdx])
	if tuple == "" {
		return []int{}, nil
	}
	parts := strings.Split(tuple, ",")
	shape := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("malformed shape entry %q", tuple)
		}
		shape = append(shape, v)
	}
	return shape, nil
}

// extractStringValue returns the quoted value of a top-level dict key, e.g.
// key="descr" against "{'descr': '<f4', 'fortran_order': False, ...}"
// returns "<f4".
func extractStringValue(header, key string) (string, error) {
	needle := "'" + key + "'"
	idx := strings.Index(header, needle)
	if idx < 0 {
		return "", fmt.Errorf("no %q entry in header", key)
	}
	rest := header[idx+len(needle):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", fmt.Errorf("malformed %q entry", key)
	}
	rest = strings.TrimSpace(rest[colon+1:])
	if len(rest) == 0 || (rest[0] != '\'' && rest[0] != '"') {
		return "", fmt.Errorf("malformed %q entry (not a quoted string)", key)
	}
	quote := rest[0]
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", fmt.Errorf("malformed %q entry (unterminated string)", key)
	}
	return rest[1 : 1+end], nil
}
