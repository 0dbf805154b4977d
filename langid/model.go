// Package langid implements the packed multi-trie n-gram language model
// and the language-identification scorer built on top of it.
//
// The on-disk/mmap layout and packed-trie shape are grounded in
// original_source/langident/pstrie.h and ptrie.h (PackedTrie,
// PackedSimpleTrieNode, popcount-based child lookup); the
// memory-mapped file I/O is adapted from
// other_examples/5b30c61e_kho-fslm__model.go.go's MappedFile
// (os.Open + syscall.Mmap/Munmap).
package langid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"syscall"
)

const (
	fileSignature = "Language Identification Database\r\n\x1A\x04\x00"
	fileVersion   = 5
	minFileVersion = 4
	headerSize    = 128
)

var (
	// ErrBadModel reports a language-model file whose signature or
	// version header does not match what this package can read.
	ErrBadModel = errors.New("langid: malformed or unsupported model file")
)

// Header is the fixed-size model file header, grounded on
// langid.h's LANGID_FILE_SIGNATURE/LANGID_FILE_VERSION/LANGID_PADBYTES_1.
type Header struct {
	Version      uint32
	NumNodes     uint32
	NumTerminals uint32
	NumLanguages uint32
	MaxKeyLen    uint32
}

// Model is a memory-mapped language-identification database: a packed
// multi-trie over byte n-grams plus the language-id table its leaves
// reference.
type Model struct {
	file   *os.File
	data   []byte
	Header Header
	Trie   *PackedMultiTrie
	Langs  []LanguageID
}

// OpenModel memory-maps path read-only and parses its header, trie and
// language table. The returned Model must be closed with Close to
// release the mapping.
func OpenModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := int(stat.Size())
	if size < headerSize {
		f.Close()
		return nil, ErrBadModel
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	m := &Model{file: f, data: data}
	if err := m.parseHeader(); err != nil {
		m.Close()
		return nil, err
	}
	if err := m.parseBody(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Close releases the memory mapping and the underlying file handle.
func (m *Model) Close() error {
	var err error
	if m.data != nil {
		err = syscall.Munmap(m.data)
		m.data = nil
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (m *Model) parseHeader() error {
	sig := string(m.data[:len(fileSignature)])
	if sig != fileSignature {
		return ErrBadModel
	}
	off := len(fileSignature)
	read32 := func() uint32 {
		v := binary.LittleEndian.Uint32(m.data[off:])
		off += 4
		return v
	}
	m.Header.Version = read32()
	if m.Header.Version < minFileVersion || m.Header.Version > fileVersion {
		return fmt.Errorf("%w: version %d", ErrBadModel, m.Header.Version)
	}
	m.Header.NumNodes = read32()
	m.Header.NumTerminals = read32()
	m.Header.NumLanguages = read32()
	m.Header.MaxKeyLen = read32()
	return nil
}

func (m *Model) parseBody() error {
	body := m.data[headerSize:]
	trie, rest, err := parsePackedMultiTrie(body, m.Header.NumNodes, m.Header.NumTerminals)
	if err != nil {
		return err
	}
	m.Trie = trie
	langs, err := parseLanguageTable(rest, m.Header.NumLanguages)
	if err != nil {
		return err
	}
	m.Langs = langs
	return nil
}
