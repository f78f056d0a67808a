package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// Write encodes img in the RDB-0000 layout and installs it atomically at
// path: the image is written to a sibling temp file first, then renamed
// into place, so a crash or a concurrent reader never observes a
// half-written dump — the on-disk file is replaced only once the new one
// is complete.
func Write(path string, img *Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-rdb-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	w := bufio.NewWriter(tmp)
	if err := encode(w, img); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}
	return nil
}

func encode(w *bufio.Writer, img *Image) error {
	if _, err := w.Write(magic); err != nil {
		return err
	}
	for _, db := range img.DBs {
		if err := writeSelectDB(w, db.Index); err != nil {
			return err
		}
		for key, val := range db.Strings {
			if err := writeRecord(w, opString, key, [][]byte{val}); err != nil {
				return err
			}
		}
		for key, elems := range db.Lists {
			if err := writeRecord(w, opList, key, elems); err != nil {
				return err
			}
		}
		for key, members := range db.Sets {
			if err := writeRecord(w, opSet, key, members); err != nil {
				return err
			}
		}
	}
	return w.WriteByte(opEOF)
}

func writeSelectDB(w *bufio.Writer, idx int) error {
	if err := w.WriteByte(opSelectDB); err != nil {
		return err
	}
	return writeU32(w, uint32(idx))
}

// writeRecord emits opcode + u32 key length + key bytes, then for STRING a
// bare u32 length + payload, or for LIST/SET a u32 element count followed
// by length-prefixed elements.
func writeRecord(w *bufio.Writer, opcode byte, key string, elems [][]byte) error {
	if err := w.WriteByte(opcode); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(key))); err != nil {
		return err
	}
	if _, err := w.WriteString(key); err != nil {
		return err
	}
	if opcode == opString {
		return writeBytes(w, elems[0])
	}
	if err := writeU32(w, uint32(len(elems))); err != nil {
		return err
	}
	for _, el := range elems {
		if err := writeBytes(w, el); err != nil {
			return err
		}
	}
	return nil
}

func writeBytes(w *bufio.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func writeU32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
