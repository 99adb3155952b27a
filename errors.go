package domo

import (
	"fmt"

	"github.com/pkg/errors"
)

// AssetKind classifies why an asset could not be produced.
type AssetKind uint8

const (
	AssetMissing      AssetKind = iota // file could not be read
	AssetDecode                        // image bytes could not be decoded
	AssetChannels                      // decoded image has an unsupported channel count
	AssetShaderSyntax                  // shader file lacks vertex/fragment sections
	AssetCompile                       // device rejected the shader or texture
	AssetNotFound                      // lookup of a registered asset missed
)

func (k AssetKind) String() string {
	switch k {
	case AssetMissing:
		return "missing"
	case AssetDecode:
		return "decode"
	case AssetChannels:
		return "channels"
	case AssetShaderSyntax:
		return "shader syntax"
	case AssetCompile:
		return "compile"
	case AssetNotFound:
		return "not found"
	default:
		return fmt.Sprintf("AssetKind(%d)", uint8(k))
	}
}

var (
	// ErrUnsupportedChannels is returned for images that are neither RGB nor RGBA.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	// ErrShaderSyntax is returned when a shader file lacks a vertex or fragment section.
	ErrShaderSyntax = errors.New("malformed shader source")
	// ErrNotFound is returned when a registered asset lookup misses.
	ErrNotFound = errors.New("asset not registered")

	// ErrBatchFull is returned by Batch.Add when every quad slot is taken.
	ErrBatchFull = errors.New("batch is full")
	// ErrTextureSlotsFull is returned by Batch.Add when the sprite's texture is
	// new to the batch and all texture slots are taken.
	ErrTextureSlotsFull = errors.New("batch has no free texture slot")
	// ErrZIndexMismatch is returned by Batch.Add for entities of another draw order.
	ErrZIndexMismatch = errors.New("entity z-index differs from batch z-index")
	// ErrBatchNotStarted is returned when rendering a batch that was never armed.
	ErrBatchNotStarted = errors.New("batch not started")
)

// AssetError reports a failure to produce a shader, texture or sprite sheet.
// Scene start surfaces it to the caller instead of aborting the process.
type AssetError struct {
	Kind AssetKind
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("domo: asset %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

func assetError(kind AssetKind, path string, err error) *AssetError {
	return &AssetError{Kind: kind, Path: path, Err: err}
}
