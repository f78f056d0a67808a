package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Read loads and decodes the RDB-0000 file at path. A missing file is not
// an error: startup treats "no dump yet" as an empty Image.
func Read(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Image{}, nil
		}
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	hdr := make([]byte, len(magic))
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("snapshot: read magic: %w", err)
	}
	if !bytes.Equal(hdr, magic) {
		return nil, fmt.Errorf("snapshot: %s is not a REDIS0000 dump", path)
	}

	img := &Image{}
	var cur *DBImage
	for {
		opcode, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("snapshot: truncated file, expected EOF opcode: %w", err)
		}
		switch opcode {
		case opEOF:
			if cur != nil {
				img.DBs = append(img.DBs, *cur)
			}
			return img, nil
		case opSelectDB:
			if cur != nil {
				img.DBs = append(img.DBs, *cur)
			}
			idx, err := readU32(r)
			if err != nil {
				return nil, fmt.Errorf("snapshot: read SELECTDB index: %w", err)
			}
			cur = &DBImage{Index: int(idx)}
		case opString, opList, opSet:
			if cur == nil {
				return nil, fmt.Errorf("snapshot: record before any SELECTDB opcode")
			}
			if err := readRecord(r, opcode, cur); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("snapshot: unknown opcode %d", opcode)
		}
	}
}

func readRecord(r *bufio.Reader, opcode byte, cur *DBImage) error {
	key, err := readBytes(r)
	if err != nil {
		return fmt.Errorf("snapshot: read key: %w", err)
	}
	switch opcode {
	case opString:
		val, err := readBytes(r)
		if err != nil {
			return fmt.Errorf("snapshot: read string value for %q: %w", key, err)
		}
		if cur.Strings == nil {
			cur.Strings = make(map[string][]byte)
		}
		cur.Strings[string(key)] = val
	case opList, opSet:
		count, err := readU32(r)
		if err != nil {
			return fmt.Errorf("snapshot: read element count for %q: %w", key, err)
		}
		elems := make([][]byte, count)
		for i := range elems {
			el, err := readBytes(r)
			if err != nil {
				return fmt.Errorf("snapshot: read element %d of %q: %w", i, key, err)
			}
			elems[i] = el
		}
		if opcode == opList {
			if cur.Lists == nil {
				cur.Lists = make(map[string][][]byte)
			}
			cur.Lists[string(key)] = elems
		} else {
			if cur.Sets == nil {
				cur.Sets = make(map[string][][]byte)
			}
			cur.Sets[string(key)] = elems
		}
	}
	return nil
}

func readBytes(r *bufio.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readU32(r *bufio.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
