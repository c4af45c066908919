package gfx

import "github.com/kjkrol/seqview/pkg/gfx/texture"

type Texture = texture.Texture
