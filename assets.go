package domo

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Assets deduplicates shaders, textures and sprite sheets by canonical path.
// There is at most one live instance per path for the lifetime of the cache.
// Entries are never evicted.
//
// Assets is mutated at scene setup only. It is not safe for concurrent use,
// except that Preload fans out decoding internally.
type Assets struct {
	dev     Device
	decoder ImageDecoder

	shaders  map[string]*Shader
	textures map[string]*Texture
	sheets   map[string]*SpriteSheet
}

// NewAssets creates an empty cache uploading to dev. A nil decoder selects
// FileDecoder.
func NewAssets(dev Device, dec ImageDecoder) *Assets {
	if dev == nil {
		panic("domo: NewAssets requires a device")
	}
	if dec == nil {
		dec = FileDecoder{}
	}
	return &Assets{
		dev:      dev,
		decoder:  dec,
		shaders:  make(map[string]*Shader),
		textures: make(map[string]*Texture),
		sheets:   make(map[string]*SpriteSheet),
	}
}

// Device returns the device the cache uploads to.
func (a *Assets) Device() Device { return a.dev }

// canonicalPath resolves path to the absolute form used as cache key.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", assetError(AssetMissing, path, err)
	}
	return filepath.Clean(abs), nil
}

// Shader returns the shader compiled from the file at path, compiling it on
// the first request.
func (a *Assets) Shader(path string) (*Shader, error) {
	key, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	if s, ok := a.shaders[key]; ok {
		return s, nil
	}
	src, err := os.ReadFile(key)
	if err != nil {
		return nil, assetError(AssetMissing, key, err)
	}
	s, err := compileShader(a.dev, key, string(src))
	if err != nil {
		return nil, err
	}
	a.shaders[key] = s
	Logger().Info("shader loaded", zap.String("path", key))
	return s, nil
}

// ShaderFromSource compiles src and registers it under name. A second call
// with the same name returns the first shader without recompiling.
func (a *Assets) ShaderFromSource(name, src string) (*Shader, error) {
	if s, ok := a.shaders[name]; ok {
		return s, nil
	}
	s, err := compileShader(a.dev, name, src)
	if err != nil {
		return nil, err
	}
	a.shaders[name] = s
	Logger().Info("shader loaded", zap.String("name", name))
	return s, nil
}

// DefaultShader returns the embedded batch shader.
func (a *Assets) DefaultShader() (*Shader, error) {
	return a.ShaderFromSource(DefaultShaderName, defaultShaderSource)
}

// Texture returns the texture decoded from the file at path, uploading it on
// the first request.
func (a *Assets) Texture(path string) (*Texture, error) {
	key, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	if t, ok := a.textures[key]; ok {
		return t, nil
	}
	img, err := a.decode(key)
	if err != nil {
		return nil, err
	}
	return a.insertTexture(key, img)
}

// TextureFromImage uploads img and registers it under name. A second call
// with the same name returns the first texture.
func (a *Assets) TextureFromImage(name string, img image.Image) (*Texture, error) {
	if t, ok := a.textures[name]; ok {
		return t, nil
	}
	pix, err := decodePixels(img)
	if err != nil {
		return nil, assetError(AssetChannels, name, err)
	}
	return a.insertTexture(name, pix)
}

func (a *Assets) decode(key string) (DecodedImage, error) {
	img, err := a.decoder.Decode(key)
	if err != nil {
		var ae *AssetError
		if errors.As(err, &ae) {
			return DecodedImage{}, err
		}
		return DecodedImage{}, assetError(AssetDecode, key, err)
	}
	return img, nil
}

func (a *Assets) insertTexture(key string, img DecodedImage) (*Texture, error) {
	t, err := uploadTexture(a.dev, key, img)
	if err != nil {
		return nil, err
	}
	a.textures[key] = t
	Logger().Info("texture loaded",
		zap.String("path", key),
		zap.Int("width", t.width),
		zap.Int("height", t.height))
	return t, nil
}

// AddSpriteSheet registers sheet under path. An existing sheet for the same
// path is kept.
func (a *Assets) AddSpriteSheet(path string, sheet *SpriteSheet) error {
	key, err := canonicalPath(path)
	if err != nil {
		return err
	}
	if _, ok := a.sheets[key]; !ok {
		a.sheets[key] = sheet
	}
	return nil
}

// SpriteSheet returns the sheet registered under path.
func (a *Assets) SpriteSheet(path string) (*SpriteSheet, error) {
	key, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}
	s, ok := a.sheets[key]
	if !ok {
		return nil, assetError(AssetNotFound, key, ErrNotFound)
	}
	return s, nil
}

// Preload decodes the given image files concurrently and then uploads them
// in argument order on the calling goroutine. Paths already cached are
// skipped. The first error cancels the remaining decodes.
func (a *Assets) Preload(ctx context.Context, paths ...string) error {
	keys := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		key, err := canonicalPath(p)
		if err != nil {
			return err
		}
		if _, ok := a.textures[key]; ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	decoded := make([]DecodedImage, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := a.decode(key)
			if err != nil {
				return err
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, key := range keys {
		if _, err := a.insertTexture(key, decoded[i]); err != nil {
			return err
		}
	}
	return nil
}
