// Copyright 2026 cloudygreybeard
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package indicator

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"
)

const (
	// GlyphSize is the edge length of the generated icon canvas.
	GlyphSize = 128

	outerRadius = 56
	innerRadius = 20

	// kappa places cubic control points so four curves approximate a circle.
	kappa = 0.5522847
)

// Glyph renders a filled circle of the given color with a white disc inset.
// color must be a hex token such as "#4caf50" or "#fff".
func Glyph(color string) (*image.RGBA, error) {
	c, err := colorful.Hex(color)
	if err != nil {
		return nil, fmt.Errorf("parsing color %q: %w", color, err)
	}

	img := image.NewRGBA(image.Rect(0, 0, GlyphSize, GlyphSize))
	center := float32(GlyphSize) / 2

	disc(img, center, outerRadius, image.NewUniform(c))
	disc(img, center, innerRadius, image.White)

	return img, nil
}

func disc(dst *image.RGBA, center, radius float32, src image.Image) {
	size := dst.Bounds().Size()
	z := vector.NewRasterizer(size.X, size.Y)

	k := kappa * radius
	cx, cy := center, center

	z.MoveTo(cx+radius, cy)
	z.CubeTo(cx+radius, cy+k, cx+k, cy+radius, cx, cy+radius)
	z.CubeTo(cx-k, cy+radius, cx-radius, cy+k, cx-radius, cy)
	z.CubeTo(cx-radius, cy-k, cx-k, cy-radius, cx, cy-radius)
	z.CubeTo(cx+k, cy-radius, cx+radius, cy-k, cx+radius, cy)
	z.ClosePath()

	z.Draw(dst, dst.Bounds(), src, image.Point{})
}
