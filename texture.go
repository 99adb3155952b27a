package domo

// Texture is a GPU-resident image owned by an Assets cache. Textures are
// shared by any number of sprites and live as long as the cache.
type Texture struct {
	path   string
	handle TextureID
	width  int
	height int
}

// Path returns the canonical path or name the texture is cached under.
func (t *Texture) Path() string { return t.path }

// Handle returns the device texture handle.
func (t *Texture) Handle() TextureID { return t.handle }

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// uploadTexture sends decoded pixels to the device.
func uploadTexture(dev Device, path string, img DecodedImage) (*Texture, error) {
	if img.Channels != 3 && img.Channels != 4 {
		return nil, assetError(AssetChannels, path, ErrUnsupportedChannels)
	}
	h, err := dev.NewTexture(img)
	if err != nil {
		return nil, assetError(AssetCompile, path, err)
	}
	return &Texture{path: path, handle: h, width: img.Width, height: img.Height}, nil
}
